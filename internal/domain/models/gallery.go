package models

import (
	"time"

	"github.com/google/uuid"
)

// Gallery представляет собой строку таблицы galleries
type Gallery struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	CoverImageID *uuid.UUID `json:"cover_image_id" db:"cover_image_id"` // nil, пока обложка не назначена
	CreatedAt    time.Time  `json:"-" db:"created_at"`
}

// GalleryImage принадлежит ровно одной галерее
type GalleryImage struct {
	ID           uuid.UUID `json:"id" db:"id"`
	GalleryID    uuid.UUID `json:"-" db:"gallery_id"`
	URL          string    `json:"url" db:"url"`
	IsCoverPhoto bool      `json:"is_cover_photo" db:"is_cover_photo"`
	Location     string    `json:"location" db:"location"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}

// GalleryWithImages - элемент ответа списка галерей
type GalleryWithImages struct {
	Gallery
	Images []GalleryImage `json:"images"`
	Error  string         `json:"error,omitempty"`
}
