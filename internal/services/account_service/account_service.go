package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/lib/logger/sl"
	"agri_trade/internal/repository"
	"agri_trade/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrAccountExists    = errors.New("account already exists")
	ErrAccountNotFound  = errors.New("account not found")
	emailRegexp         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordHashingCost = bcrypt.DefaultCost
)

type AccountService struct {
	log  *slog.Logger
	repo repository.AdminRepository
}

func NewAccountService(log *slog.Logger, repo repository.AdminRepository) *AccountService {
	return &AccountService{
		log:  log,
		repo: repo,
	}
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Admin, error) {
	const op = "service.AccountService.ListAccounts"

	admins, err := s.repo.ListAdmins(ctx)
	if err != nil {
		s.log.Error("failed to list admins", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return admins, nil
}

func (s *AccountService) CreateAccount(ctx context.Context, email, password string) error {
	const op = "service.AccountService.CreateAccount"
	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashingCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.repo.SaveAdmin(ctx, email, passHash); err != nil {
		if errors.Is(err, storage.ErrAdminExists) {
			log.Warn("admin already exists")
			return fmt.Errorf("%s: %w", op, ErrAccountExists)
		}
		log.Error("failed to save admin", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin created")
	return nil
}

func (s *AccountService) UpdatePassword(ctx context.Context, email, password string) error {
	const op = "service.AccountService.UpdatePassword"
	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	if err := validateCredentials(email, password); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashingCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.UpdatePassword(ctx, email, passHash); err != nil {
		if errors.Is(err, storage.ErrAdminNotFound) {
			return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		log.Error("failed to update password", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password updated")
	return nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, email string) error {
	const op = "service.AccountService.DeleteAccount"
	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%s: %w: email is required", op, ErrInvalidInput)
	}

	if err := s.repo.DeleteAdmin(ctx, email); err != nil {
		if errors.Is(err, storage.ErrAdminNotFound) {
			return fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		log.Error("failed to delete admin", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin deleted")
	return nil
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	return nil
}
