package repository

import (
	"context"
	"time"

	"agri_trade/internal/domain/models"

	"github.com/google/uuid"
)

type GalleryRepository interface {
	CreateGallery(ctx context.Context, title, description string) (uuid.UUID, error)
	UpdateGallery(ctx context.Context, id uuid.UUID, title, description string) error
	DeleteGallery(ctx context.Context, id uuid.UUID) error
	GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error)
	GetGalleries(ctx context.Context) ([]models.Gallery, error)
	CreateImage(ctx context.Context, image models.GalleryImage) (uuid.UUID, error)
	GetImagesByGalleryID(ctx context.Context, galleryID uuid.UUID) ([]models.GalleryImage, error)
	DeleteImagesByGalleryID(ctx context.Context, galleryID uuid.UUID) error
	SetCoverImage(ctx context.Context, galleryID, imageID uuid.UUID) error
}

type AdminRepository interface {
	SaveAdmin(ctx context.Context, email string, passHash []byte) (uuid.UUID, error)
	AdminByEmail(ctx context.Context, email string) (models.Admin, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)
	UpdatePassword(ctx context.Context, email string, passHash []byte) error
	DeleteAdmin(ctx context.Context, email string) error
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, settings models.Settings) error
}

type SessionRepository interface {
	SaveSession(ctx context.Context, session models.Session, ttl time.Duration) error
	GetSession(ctx context.Context, id string) (models.Session, error)
	DeleteSession(ctx context.Context, id string) error
}
