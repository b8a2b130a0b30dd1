package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/lib/jwt"
	"agri_trade/internal/lib/logger/sl"
	"agri_trade/internal/repository"
	"agri_trade/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

type AdminProvider interface {
	AdminByEmail(ctx context.Context, email string) (models.Admin, error)
}

// SessionService проверяет учётные данные админа и ведёт сессии в redis
type SessionService struct {
	log      *slog.Logger
	admins   AdminProvider
	sessions repository.SessionRepository
	secret   string
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionService(
	log *slog.Logger,
	admins AdminProvider,
	sessions repository.SessionRepository,
	secret string,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		log:      log,
		admins:   admins,
		sessions: sessions,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SessionService) Login(ctx context.Context, email, password string) (models.Session, models.SessionToken, error) {
	const op = "service.SessionService.Login"
	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login admin")

	admin, err := s.admins.AdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrAdminNotFound) {
			log.Warn("admin not found")
			return models.Session{}, models.SessionToken{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get admin", sl.Err(err))
		return models.Session{}, models.SessionToken{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(admin.Password, []byte(password)); err != nil {
		log.Info("invalid credentials")
		return models.Session{}, models.SessionToken{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	session := models.Session{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		Email:     admin.Email,
		ExpiresAt: s.now().Add(s.ttl),
	}

	if err := s.sessions.SaveSession(ctx, session, s.ttl); err != nil {
		log.Error("failed to save session", sl.Err(err))
		return models.Session{}, models.SessionToken{}, fmt.Errorf("%s: %w", op, err)
	}

	token, err := jwt.NewToken(session, s.secret)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		return models.Session{}, models.SessionToken{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin logged in")

	return session, models.SessionToken{AccessToken: token, ExpiresAt: session.ExpiresAt}, nil
}

// Verify проверяет, что сессия с таким id жива
func (s *SessionService) Verify(ctx context.Context, sessionID string) (models.Session, error) {
	const op = "service.SessionService.Verify"

	if sessionID == "" {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return models.Session{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}
		s.log.Error("failed to get session", slog.String("op", op), sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if !session.ExpiresAt.IsZero() && s.now().After(session.ExpiresAt) {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	return session, nil
}

// VerifyToken проверяет bearer токен и что его сессия не отозвана
func (s *SessionService) VerifyToken(ctx context.Context, token string) (models.Session, error) {
	const op = "service.SessionService.VerifyToken"

	claims, err := jwt.ParseToken(token, s.secret)
	if err != nil {
		s.log.Debug("invalid bearer token", slog.String("op", op), sl.Err(err))
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	session, err := s.Verify(ctx, claims.ID)
	if err != nil {
		return models.Session{}, err
	}

	if session.AdminID != claims.AdminID {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	return session, nil
}

func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	const op = "service.SessionService.Logout"

	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		s.log.Error("failed to delete session", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("admin logged out", slog.String("op", op))
	return nil
}
