package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/storage"

	"github.com/brianvoe/gofakeit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) SaveAdmin(ctx context.Context, email string, passHash []byte) (uuid.UUID, error) {
	args := m.Called(ctx, email, passHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockAdminRepository) AdminByEmail(ctx context.Context, email string) (models.Admin, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.Admin), args.Error(1)
}

func (m *MockAdminRepository) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Admin), args.Error(1)
}

func (m *MockAdminRepository) UpdatePassword(ctx context.Context, email string, passHash []byte) error {
	args := m.Called(ctx, email, passHash)
	return args.Error(0)
}

func (m *MockAdminRepository) DeleteAdmin(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func newTestService() (*AccountService, *MockAdminRepository) {
	repo := new(MockAdminRepository)
	return NewAccountService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo), repo
}

func hashMatches(password string) interface{} {
	return mock.MatchedBy(func(hash []byte) bool {
		return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
	})
}

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	email := gofakeit.Email()
	password := gofakeit.Password(true, true, true, false, false, 12)

	tests := []struct {
		name      string
		email     string
		password  string
		mockSetup func(repo *MockAdminRepository)
		wantErr   error
	}{
		{
			name:     "successful creation",
			email:    email,
			password: password,
			mockSetup: func(repo *MockAdminRepository) {
				repo.On("SaveAdmin", mock.Anything, email, hashMatches(password)).Return(uuid.New(), nil).Once()
			},
		},
		{
			name:      "invalid email",
			email:     "not-an-email",
			password:  password,
			mockSetup: func(repo *MockAdminRepository) {},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "missing password",
			email:     email,
			mockSetup: func(repo *MockAdminRepository) {},
			wantErr:   ErrInvalidInput,
		},
		{
			name:     "duplicate",
			email:    email,
			password: password,
			mockSetup: func(repo *MockAdminRepository) {
				repo.On("SaveAdmin", mock.Anything, email, mock.Anything).Return(uuid.Nil, storage.ErrAdminExists).Once()
			},
			wantErr: ErrAccountExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			tt.mockSetup(repo)

			err := svc.CreateAccount(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAccountService_ListAccounts(t *testing.T) {
	svc, repo := newTestService()
	admins := []models.Admin{{ID: uuid.New(), Email: "a@example.com"}}

	repo.On("ListAdmins", mock.Anything).Return(admins, nil).Once()

	got, err := svc.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, admins, got)

	repo.On("ListAdmins", mock.Anything).Return([]models.Admin(nil), errors.New("db down")).Once()
	_, err = svc.ListAccounts(context.Background())
	assert.Error(t, err)
}

func TestAccountService_UpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("UpdatePassword", mock.Anything, "a@example.com", hashMatches("new-pass")).Return(nil).Once()

		require.NoError(t, svc.UpdatePassword(ctx, "a@example.com", "new-pass"))
		repo.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("UpdatePassword", mock.Anything, "a@example.com", mock.Anything).Return(storage.ErrAdminNotFound).Once()

		assert.ErrorIs(t, svc.UpdatePassword(ctx, "a@example.com", "new-pass"), ErrAccountNotFound)
	})
}

func TestAccountService_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("DeleteAdmin", mock.Anything, "a@example.com").Return(nil).Once()
		assert.NoError(t, svc.DeleteAccount(ctx, "a@example.com"))
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("DeleteAdmin", mock.Anything, "a@example.com").Return(storage.ErrAdminNotFound).Once()
		assert.ErrorIs(t, svc.DeleteAccount(ctx, "a@example.com"), ErrAccountNotFound)
	})

	t.Run("empty email", func(t *testing.T) {
		svc, repo := newTestService()
		assert.ErrorIs(t, svc.DeleteAccount(ctx, ""), ErrInvalidInput)
		repo.AssertNotCalled(t, "DeleteAdmin", mock.Anything, mock.Anything)
	})
}
