package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fakeye/internal/common"
	"github.com/dmitrijs2005/fakeye/internal/logging"
	"github.com/dmitrijs2005/fakeye/internal/models"
	"github.com/dmitrijs2005/fakeye/internal/storage"
)

// credentialRecord is the stored form of an account: the public profile plus
// the hashed credential. It never leaves this package.
type credentialRecord struct {
	models.User
	Password string `json:"password"`
}

// sessionRecord is the persisted current session.
type sessionRecord struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Service manages the user directory and the current session.
type Service struct {
	store  storage.Store
	hasher PasswordHasher
	tokens *TokenManager
	log    logging.Logger

	mu      sync.RWMutex
	current *models.User
}

func NewService(store storage.Store, hasher PasswordHasher, tokens *TokenManager, log logging.Logger) *Service {
	return &Service{store: store, hasher: hasher, tokens: tokens, log: log.With("component", "auth")}
}

// Register creates an account and logs it in. A duplicate email yields
// common.ErrorAlreadyExists.
func (s *Service) Register(ctx context.Context, email, username string, password []byte) (*models.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return nil, common.ErrorAlreadyExists
		}
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record := credentialRecord{
		User: models.User{
			ID:       fmt.Sprintf("user-%s", uuid.NewString()),
			Email:    email,
			Username: username,
			Avatar:   avatarURL(username),
		},
		Password: hashed,
	}

	users = append(users, record)
	if err := storage.SaveRecords(ctx, s.store, storage.NamespaceUsers, users); err != nil {
		return nil, fmt.Errorf("failed to save users: %w", err)
	}

	return s.beginSession(ctx, record.User)
}

// Login authenticates against the directory. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if err := s.hasher.Compare(u.Password, password); err != nil {
			return nil, err
		}
		return s.beginSession(ctx, u.User)
	}

	return nil, common.ErrorInvalidCredentials
}

// Logout drops the session, in memory and in the store.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, storage.NamespaceSession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Restore re-validates a persisted session at startup. An absent, damaged
// or expired session is discarded silently; there is nothing the user can
// do about it beyond logging in again.
func (s *Service) Restore(ctx context.Context) (*models.User, error) {
	data, err := s.store.Read(ctx, storage.NamespaceSession)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var session sessionRecord
	if err := json.Unmarshal(data, &session); err != nil {
		s.discardSession(ctx)
		return nil, nil
	}

	userID, err := s.tokens.Parse(session.Token)
	if err != nil || userID != session.User.ID {
		s.log.Info(ctx, "discarding stale session", "user_id", session.User.ID)
		s.discardSession(ctx)
		return nil, nil
	}

	s.mu.Lock()
	user := session.User
	s.current = &user
	s.mu.Unlock()

	return &user, nil
}

// Current returns the logged-in user, or nil.
func (s *Service) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

func (s *Service) beginSession(ctx context.Context, user models.User) (*models.User, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	data, err := json.Marshal(sessionRecord{User: user, Token: token})
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(ctx, storage.NamespaceSession, data); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.current = &user
	s.mu.Unlock()

	out := user
	return &out, nil
}

func (s *Service) loadUsers(ctx context.Context) ([]credentialRecord, error) {
	users, err := storage.LoadRecords[credentialRecord](ctx, s.store, storage.NamespaceUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}

func (s *Service) discardSession(ctx context.Context) {
	if err := s.store.Delete(ctx, storage.NamespaceSession); err != nil {
		s.log.Warn(ctx, "failed to discard session", "error", err)
	}
}

func avatarURL(username string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", username)
}
