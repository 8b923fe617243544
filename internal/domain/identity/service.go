package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthd/healthd/internal/platform/auth"
)

// ErrInvalidCredentials is returned on login with a wrong username or
// password. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid username or password")

// HistoryInitializer creates the empty assessment history for a new
// account. Satisfied by the assessment service.
type HistoryInitializer interface {
	InitHistory(ctx context.Context, userID uuid.UUID) error
}

// Service provides registration and login.
type Service struct {
	users     UserRepository
	histories HistoryInitializer
	tokens    auth.TokenConfig
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates the identity service.
func NewService(users UserRepository, histories HistoryInitializer, tokens auth.TokenConfig, log zerolog.Logger) *Service {
	return &Service{
		users:     users,
		histories: histories,
		tokens:    tokens,
		log:       log,
		now:       time.Now,
	}
}

// Register creates a new account with a bcrypt-hashed password and an
// empty assessment history.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	if len(username) < MinUsernameLen {
		return nil, fmt.Errorf("username must be at least %d characters", MinUsernameLen)
	}
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	// A failed history init leaves the account usable; the history store
	// also creates itself lazily on first load.
	if err := s.histories.InitHistory(ctx, u.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", u.ID.String()).
			Msg("failed to initialize assessment history")
	}

	s.log.Info().Str("username", username).Msg("user registered")
	return u, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.tokens, u.ID, u.Username)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}
