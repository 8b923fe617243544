package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const storedTimeLayout = "2006-01-02 15:04:05"

func parseStoredTime(s string) (time.Time, error) {
	return time.Parse(storedTimeLayout, s)
}

// storedUser is the on-disk form: unlike the API form it carries the
// password hash.
type storedUser struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    string    `json:"created_at"`
}

// userRepoFile keeps all accounts in one users.json file under dataDir.
// A single mutex serializes access; the account set is small by design.
type userRepoFile struct {
	path string
	mu   sync.Mutex
}

// NewUserRepoFile returns a flat-file user repository rooted at dataDir.
func NewUserRepoFile(dataDir string) (UserRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &userRepoFile{path: filepath.Join(dataDir, "users.json")}, nil
}

func (r *userRepoFile) read() ([]storedUser, error) {
	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user store: %w", err)
	}
	var users []storedUser
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode user store: %w", err)
	}
	return users, nil
}

func (r *userRepoFile) write(users []storedUser) error {
	raw, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user store: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write user store: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace user store: %w", err)
	}
	return nil
}

func (r *userRepoFile) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := r.read()
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Username == u.Username {
			return ErrUsernameTaken
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	users = append(users, storedUser{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.Format(storedTimeLayout),
	})
	return r.write(users)
}

func (r *userRepoFile) GetByUsername(ctx context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, su := range users {
		if su.Username == username {
			u := &User{
				ID:           su.ID,
				Username:     su.Username,
				PasswordHash: su.PasswordHash,
			}
			// Creation time is display data in the file store; a bad
			// value degrades to the zero time rather than failing login.
			u.CreatedAt, _ = parseStoredTime(su.CreatedAt)
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}
