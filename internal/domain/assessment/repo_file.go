package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// historyRepoFile persists each user's history as one JSON array file
// under dataDir. Writers on the same file are serialized by a per-user
// mutex; files are replaced atomically via rename so readers never see a
// partial write.
type historyRepoFile struct {
	dataDir string
	log     zerolog.Logger

	mu    sync.Mutex // guards locks
	locks map[uuid.UUID]*sync.Mutex
}

// NewHistoryRepoFile returns a flat-file history repository rooted at
// dataDir, creating the directory if needed.
func NewHistoryRepoFile(dataDir string, log zerolog.Logger) (HistoryRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &historyRepoFile{
		dataDir: dataDir,
		log:     log,
		locks:   map[uuid.UUID]*sync.Mutex{},
	}, nil
}

func (r *historyRepoFile) userLock(userID uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

func (r *historyRepoFile) path(userID uuid.UUID) string {
	return filepath.Join(r.dataDir, userID.String()+".json")
}

// read loads and decodes a user's history file without locking. A missing
// file yields nil with created=false; corrupt content is downgraded to an
// empty history with a warning so one bad file never wedges the user.
func (r *historyRepoFile) read(userID uuid.UUID) (records []*Record, exists bool) {
	raw, err := os.ReadFile(r.path(userID))
	if os.IsNotExist(err) {
		return nil, false
	}
	if err != nil {
		r.log.Warn().Err(err).Str("user_id", userID.String()).
			Msg("history file unreadable, treating as empty")
		return nil, true
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID.String()).
			Msg("history file corrupt, treating as empty")
		return nil, true
	}
	return records, true
}

func (r *historyRepoFile) write(userID uuid.UUID, records []*Record) error {
	if records == nil {
		records = []*Record{}
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	tmp := r.path(userID) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, r.path(userID)); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

func (r *historyRepoFile) Init(ctx context.Context, userID uuid.UUID) error {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()
	if _, exists := r.read(userID); exists {
		return nil
	}
	return r.write(userID, nil)
}

func (r *historyRepoFile) Append(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	l := r.userLock(rec.UserID)
	l.Lock()
	defer l.Unlock()
	records, _ := r.read(rec.UserID)
	records = append(records, rec)
	return r.write(rec.UserID, records)
}

func (r *historyRepoFile) Load(ctx context.Context, userID uuid.UUID) ([]*Record, error) {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()
	records, exists := r.read(userID)
	if !exists {
		if err := r.write(userID, nil); err != nil {
			return nil, err
		}
	}
	if records == nil {
		records = []*Record{}
	}
	return records, nil
}

func (r *historyRepoFile) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	records, err := r.Load(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	total := len(records)

	// Insertion order is chronological; pages are served newest first.
	newest := make([]*Record, total)
	for i, rec := range records {
		newest[total-1-i] = rec
	}
	if offset >= total {
		return []*Record{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return newest[offset:end], total, nil
}

func (r *historyRepoFile) GetByID(ctx context.Context, userID, id uuid.UUID) (*Record, error) {
	records, err := r.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}
