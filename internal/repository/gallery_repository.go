package repository

import (
	"context"
	"errors"
	"fmt"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	galleriesTable     = "galleries"
	galleryImagesTable = "gallery_images"
)

type GalleryRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewGalleryRepo(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateGallery создает строку галереи (без обложки) и возвращает её ID
func (r *GalleryRepo) CreateGallery(ctx context.Context, title, description string) (uuid.UUID, error) {
	const op = "repository.GalleryRepo.CreateGallery"

	query, args, err := r.sb.Insert(galleriesTable).
		Columns("title", "description").
		Values(title, description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// UpdateGallery перезаписывает заголовок и описание
func (r *GalleryRepo) UpdateGallery(ctx context.Context, id uuid.UUID, title, description string) error {
	const op = "repository.GalleryRepo.UpdateGallery"

	query, args, err := r.sb.Update(galleriesTable).
		Set("title", title).
		Set("description", description).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
	}

	return nil
}

// DeleteGallery удаляет строку галереи. Изображения должны быть удалены раньше.
func (r *GalleryRepo) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	const op = "repository.GalleryRepo.DeleteGallery"

	query, args, err := r.sb.Delete(galleriesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
	}

	return nil
}

// GetGalleryByID возвращает галерею по ID
func (r *GalleryRepo) GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error) {
	const op = "repository.GalleryRepo.GetGalleryByID"

	query, args, err := r.sb.Select("id", "title", "description", "cover_image_id", "created_at").
		From(galleriesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	var gallery models.Gallery
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&gallery.ID,
		&gallery.Title,
		&gallery.Description,
		&gallery.CoverImageID,
		&gallery.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
		}
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	return gallery, nil
}

// GetGalleries возвращает все галереи в порядке создания
func (r *GalleryRepo) GetGalleries(ctx context.Context) ([]models.Gallery, error) {
	const op = "repository.GalleryRepo.GetGalleries"

	query, args, err := r.sb.Select("id", "title", "description", "cover_image_id", "created_at").
		From(galleriesTable).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	galleries := make([]models.Gallery, 0)
	for rows.Next() {
		var gallery models.Gallery
		if err := rows.Scan(
			&gallery.ID,
			&gallery.Title,
			&gallery.Description,
			&gallery.CoverImageID,
			&gallery.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		galleries = append(galleries, gallery)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return galleries, nil
}

// CreateImage добавляет изображение галереи и возвращает его ID
func (r *GalleryRepo) CreateImage(ctx context.Context, image models.GalleryImage) (uuid.UUID, error) {
	const op = "repository.GalleryRepo.CreateImage"

	query, args, err := r.sb.Insert(galleryImagesTable).
		Columns("gallery_id", "url", "is_cover_photo", "location").
		Values(image.GalleryID, image.URL, image.IsCoverPhoto, image.Location).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *GalleryRepo) GetImagesByGalleryID(ctx context.Context, galleryID uuid.UUID) ([]models.GalleryImage, error) {
	const op = "repository.GalleryRepo.GetImagesByGalleryID"

	query, args, err := r.sb.Select("id", "gallery_id", "url", "is_cover_photo", "location", "created_at").
		From(galleryImagesTable).
		Where(squirrel.Eq{"gallery_id": galleryID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	images := make([]models.GalleryImage, 0)
	for rows.Next() {
		var image models.GalleryImage
		if err := rows.Scan(
			&image.ID,
			&image.GalleryID,
			&image.URL,
			&image.IsCoverPhoto,
			&image.Location,
			&image.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		images = append(images, image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return images, nil
}

func (r *GalleryRepo) DeleteImagesByGalleryID(ctx context.Context, galleryID uuid.UUID) error {
	const op = "repository.GalleryRepo.DeleteImagesByGalleryID"

	query, args, err := r.sb.Delete(galleryImagesTable).
		Where(squirrel.Eq{"gallery_id": galleryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SetCoverImage в одной транзакции делает imageID единственной обложкой галереи:
// снимает is_cover_photo с остальных изображений и пишет galleries.cover_image_id
func (r *GalleryRepo) SetCoverImage(ctx context.Context, galleryID, imageID uuid.UUID) (err error) {
	const op = "repository.GalleryRepo.SetCoverImage"

	flagsQuery, flagsArgs, err := r.sb.Update(galleryImagesTable).
		Set("is_cover_photo", squirrel.Expr("(id = ?)", imageID)).
		Where(squirrel.Eq{"gallery_id": galleryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	coverQuery, coverArgs, err := r.sb.Update(galleriesTable).
		Set("cover_image_id", imageID).
		Where(squirrel.Eq{"id": galleryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, flagsQuery, flagsArgs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := tx.Exec(ctx, coverQuery, coverArgs...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		err = storage.ErrGalleryNotFound
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
