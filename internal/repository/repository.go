package repository

import (
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Repository struct {
	Gallery  GalleryRepository
	Admin    AdminRepository
	Settings SettingsRepository
	Session  SessionRepository
}

func NewRepository(db *pgxpool.Pool, rdb redis.Cmdable) *Repository {
	return &Repository{
		Gallery:  NewGalleryRepo(db),
		Admin:    NewAdminRepository(db),
		Settings: NewSettingsRepository(db),
		Session:  NewRedisSessionRepo(rdb),
	}
}
