package suite

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"agri_trade/internal/config"
	"agri_trade/internal/domain/models"
	accountservice "agri_trade/internal/services/account_service"
	sessionservice "agri_trade/internal/services/session_service"
	"agri_trade/internal/storage"

	"github.com/google/uuid"
)

type Suite struct {
	*testing.T
	Cfg            *config.Config
	AccountService *accountservice.AccountService
	SessionService *sessionservice.SessionService
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()
	t.Parallel()

	cfg := config.MustLoadPath(configPath())

	ctx, cancelCtx := context.WithTimeout(context.Background(), time.Minute)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	admins := newAdminStore()

	t.Cleanup(func() {
		t.Helper()
		cancelCtx()
	})

	return ctx, &Suite{
		T:              t,
		Cfg:            cfg,
		AccountService: accountservice.NewAccountService(log, admins),
		SessionService: sessionservice.NewSessionService(log, admins, newSessionStore(), cfg.Session.Secret, cfg.Session.TTL),
	}
}

func configPath() string {
	const key = "CONFIG_PATH"

	if v := os.Getenv(key); v != "" {
		return v
	}

	return "../config/local.yaml"
}

// adminStore in-memory замена postgres для сквозных сценариев
type adminStore struct {
	mu     sync.Mutex
	admins map[string]models.Admin
}

func newAdminStore() *adminStore {
	return &adminStore{admins: make(map[string]models.Admin)}
}

func (s *adminStore) SaveAdmin(_ context.Context, email string, passHash []byte) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[email]; ok {
		return uuid.Nil, storage.ErrAdminExists
	}

	id := uuid.New()
	s.admins[email] = models.Admin{ID: id, Email: email, Password: passHash}
	return id, nil
}

func (s *adminStore) AdminByEmail(_ context.Context, email string) (models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.admins[email]
	if !ok {
		return models.Admin{}, storage.ErrAdminNotFound
	}
	return a, nil
}

func (s *adminStore) ListAdmins(context.Context) ([]models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Admin, 0, len(s.admins))
	for _, a := range s.admins {
		out = append(out, a)
	}
	return out, nil
}

func (s *adminStore) UpdatePassword(_ context.Context, email string, passHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.admins[email]
	if !ok {
		return storage.ErrAdminNotFound
	}
	a.Password = passHash
	s.admins[email] = a
	return nil
}

func (s *adminStore) DeleteAdmin(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[email]; !ok {
		return storage.ErrAdminNotFound
	}
	delete(s.admins, email)
	return nil
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]models.Session)}
}

func (s *sessionStore) SaveSession(_ context.Context, session models.Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session
	return nil
}

func (s *sessionStore) GetSession(_ context.Context, id string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return models.Session{}, storage.ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
