package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/lib/logger/sl"
	"agri_trade/internal/metrics"
	"agri_trade/internal/repository"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

var ErrInvalidInput = errors.New("invalid input")

// ObjectStorage хранилище блобов изображений
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type URLRewriter interface {
	Rewrite(url string) string
}

// ImageUpload одно изображение из формы
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CreateGalleryInput struct {
	Title           string
	Description     string
	Images          []ImageUpload
	CoverImageIndex int
	Locations       []string
}

// UpdateGalleryInput nil в Title/Description означает "оставить как есть"
type UpdateGalleryInput struct {
	Title           *string
	Description     *string
	Images          []ImageUpload
	CoverImageIndex int
	Locations       []string
}

// ImageResult результат обработки одного изображения из пачки
type ImageResult struct {
	Index int        `json:"index"`
	ID    *uuid.UUID `json:"id,omitempty"`
	URL   string     `json:"url,omitempty"`
	Error string     `json:"error,omitempty"`
}

type CreateGalleryResult struct {
	GalleryID    uuid.UUID     `json:"galleryId"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	ImageURLs    []string      `json:"imageUrls"`
	CoverImageID *uuid.UUID    `json:"coverImageId"`
	Images       []ImageResult `json:"images"`
}

type UpdateGalleryResult struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	ImageURLs    []string      `json:"imageUrls"`
	CoverImageID *uuid.UUID    `json:"coverImageId,omitempty"`
	Images       []ImageResult `json:"images"`
}

const imagesFetchError = "Failed to fetch images for gallery"

type GalleryService struct {
	log      *slog.Logger
	repo     repository.GalleryRepository
	store    ObjectStorage
	rewriter URLRewriter
}

func NewGalleryService(log *slog.Logger, repo repository.GalleryRepository, store ObjectStorage, rewriter URLRewriter) *GalleryService {
	return &GalleryService{
		log:      log,
		repo:     repo,
		store:    store,
		rewriter: rewriter,
	}
}

// ListGalleries возвращает все галереи с изображениями. Ошибка чтения
// изображений одной галереи не ломает весь список
func (s *GalleryService) ListGalleries(ctx context.Context) ([]models.GalleryWithImages, error) {
	const op = "service.GalleryService.ListGalleries"
	log := s.log.With(slog.String("op", op))

	galleries, err := s.repo.GetGalleries(ctx)
	if err != nil {
		log.Error("failed to get galleries", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]models.GalleryWithImages, 0, len(galleries))
	for _, g := range galleries {
		item := models.GalleryWithImages{Gallery: g, Images: []models.GalleryImage{}}

		images, err := s.repo.GetImagesByGalleryID(ctx, g.ID)
		if err != nil {
			log.Error("failed to get gallery images", slog.String("gallery_id", g.ID.String()), sl.Err(err))
			item.Error = imagesFetchError
			result = append(result, item)
			continue
		}

		for i := range images {
			images[i].URL = s.rewriter.Rewrite(images[i].URL)
		}
		item.Images = images

		result = append(result, item)
	}

	log.Debug("galleries listed", slog.Int("count", len(result)))
	return result, nil
}

// CreateGallery создаёт галерею и загружает изображения по порядку.
// Ошибка загрузки отдельного изображения не прерывает создание
func (s *GalleryService) CreateGallery(ctx context.Context, in CreateGalleryInput) (*CreateGalleryResult, error) {
	const op = "service.GalleryService.CreateGallery"
	log := s.log.With(
		slog.String("op", op),
		slog.String("title", in.Title),
	)

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || len(in.Images) == 0 {
		return nil, fmt.Errorf("%s: %w: title, description, and at least one image are required", op, ErrInvalidInput)
	}

	log.Info("creating gallery", slog.Int("images", len(in.Images)))

	galleryID, err := s.repo.CreateGallery(ctx, in.Title, in.Description)
	if err != nil {
		log.Error("failed to create gallery", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	batch, err := s.storeImages(ctx, log, galleryID, in.Images, in.CoverImageIndex, in.Locations)
	if coverErr := s.applyCover(ctx, log, galleryID, batch.coverID); err == nil {
		err = coverErr
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery created",
		slog.String("gallery_id", galleryID.String()),
		slog.Int("stored", len(batch.urls)),
	)

	return &CreateGalleryResult{
		GalleryID:    galleryID,
		Title:        in.Title,
		Description:  in.Description,
		ImageURLs:    batch.urls,
		CoverImageID: batch.coverID,
		Images:       batch.results,
	}, nil
}

// UpdateGallery частично обновляет галерею и добавляет новые изображения
func (s *GalleryService) UpdateGallery(ctx context.Context, id uuid.UUID, in UpdateGalleryInput) (*UpdateGalleryResult, error) {
	const op = "service.GalleryService.UpdateGallery"
	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", id.String()),
	)

	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%s: %w: title must not be empty", op, ErrInvalidInput)
	}

	existing, err := s.repo.GetGalleryByID(ctx, id)
	if err != nil {
		log.Warn("failed to get gallery", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	title := existing.Title
	if in.Title != nil {
		title = *in.Title
	}
	description := existing.Description
	if in.Description != nil {
		description = *in.Description
	}

	if err := s.repo.UpdateGallery(ctx, id, title, description); err != nil {
		log.Error("failed to update gallery", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	batch, err := s.storeImages(ctx, log, id, in.Images, in.CoverImageIndex, in.Locations)
	if coverErr := s.applyCover(ctx, log, id, batch.coverID); err == nil {
		err = coverErr
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery updated", slog.Int("new_images", len(batch.urls)))

	return &UpdateGalleryResult{
		ID:           id,
		Title:        title,
		Description:  description,
		ImageURLs:    batch.urls,
		CoverImageID: batch.coverID,
		Images:       batch.results,
	}, nil
}

// DeleteGallery удаляет блобы (best effort), строки изображений и саму галерею
func (s *GalleryService) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	const op = "service.GalleryService.DeleteGallery"
	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", id.String()),
	)

	log.Info("deleting gallery")

	images, err := s.repo.GetImagesByGalleryID(ctx, id)
	if err != nil {
		log.Error("failed to get gallery images", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	var blobErr error
	for _, img := range images {
		key, err := ObjectKeyFromURL(img.URL)
		if err != nil {
			blobErr = multierr.Append(blobErr, fmt.Errorf("image %s: %w", img.ID, err))
			metrics.GalleryBlobDeletes.WithLabelValues("failed").Inc()
			continue
		}

		if err := s.store.Delete(ctx, key); err != nil {
			blobErr = multierr.Append(blobErr, fmt.Errorf("image %s: %w", img.ID, err))
			metrics.GalleryBlobDeletes.WithLabelValues("failed").Inc()
			continue
		}
		metrics.GalleryBlobDeletes.WithLabelValues("ok").Inc()
	}
	if blobErr != nil {
		log.Warn("some blobs were not deleted",
			slog.Int("failed", len(multierr.Errors(blobErr))),
			sl.Err(blobErr),
		)
	}

	if err := s.repo.DeleteImagesByGalleryID(ctx, id); err != nil {
		log.Error("failed to delete image rows", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.DeleteGallery(ctx, id); err != nil {
		log.Error("failed to delete gallery", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery deleted", slog.Int("images", len(images)))
	return nil
}

type imageBatch struct {
	urls    []string
	results []ImageResult
	coverID *uuid.UUID
}

// storeImages загружает и записывает изображения последовательно. Ошибка
// записи строки прерывает пачку, ранее сохранённые шаги не откатываются.
// Строки пишутся без флага обложки, флаг ставит только applyCover
func (s *GalleryService) storeImages(
	ctx context.Context,
	log *slog.Logger,
	galleryID uuid.UUID,
	images []ImageUpload,
	coverIndex int,
	locations []string,
) (imageBatch, error) {
	batch := imageBatch{
		urls:    make([]string, 0, len(images)),
		results: make([]ImageResult, 0, len(images)),
	}

	for i, img := range images {
		res := ImageResult{Index: i}

		key, body, contentType, err := prepareUpload(img)
		if err != nil {
			log.Warn("failed to read image", slog.Int("index", i), sl.Err(err))
			res.Error = "failed to read image"
			batch.results = append(batch.results, res)
			metrics.GalleryImageUploads.WithLabelValues("upload_failed").Inc()
			continue
		}

		publicURL, err := s.store.Upload(ctx, key, body, img.Size, contentType)
		if err != nil {
			log.Warn("failed to upload image", slog.Int("index", i), slog.String("key", key), sl.Err(err))
			res.Error = "failed to upload image"
			batch.results = append(batch.results, res)
			metrics.GalleryImageUploads.WithLabelValues("upload_failed").Inc()
			continue
		}
		publicURL = s.rewriter.Rewrite(publicURL)

		location := ""
		if i < len(locations) {
			location = locations[i]
		}

		imageID, err := s.repo.CreateImage(ctx, models.GalleryImage{
			GalleryID:    galleryID,
			URL:          publicURL,
			IsCoverPhoto: false,
			Location:     location,
		})
		if err != nil {
			log.Error("failed to save image metadata", slog.Int("index", i), sl.Err(err))
			metrics.GalleryImageUploads.WithLabelValues("insert_failed").Inc()

			if delErr := s.store.Delete(ctx, key); delErr != nil {
				log.Warn("failed to remove orphan blob", slog.String("key", key), sl.Err(delErr))
			}
			return batch, fmt.Errorf("save image %d: %w", i, err)
		}
		metrics.GalleryImageUploads.WithLabelValues("ok").Inc()

		res.ID = &imageID
		res.URL = publicURL
		batch.results = append(batch.results, res)
		batch.urls = append(batch.urls, publicURL)

		if i == coverIndex {
			id := imageID
			batch.coverID = &id
		}
	}

	return batch, nil
}

// applyCover назначает обложку, если её строка успела записаться. Вызывается и
// после ошибки пачки, чтобы cover_image_id и is_cover_photo не разошлись
func (s *GalleryService) applyCover(ctx context.Context, log *slog.Logger, galleryID uuid.UUID, coverID *uuid.UUID) error {
	if coverID == nil {
		return nil
	}

	if err := s.repo.SetCoverImage(ctx, galleryID, *coverID); err != nil {
		log.Error("failed to set cover image", slog.String("image_id", coverID.String()), sl.Err(err))
		return err
	}

	return nil
}

// prepareUpload генерирует ключ {uuid}{.ext} с исходным расширением файла и определяет content type
func prepareUpload(img ImageUpload) (string, io.Reader, string, error) {
	if img.Body == nil {
		return "", nil, "", errors.New("empty image body")
	}

	body := img.Body
	contentType := img.ContentType
	ext := filepath.Ext(img.Filename)

	if contentType == "" || contentType == "application/octet-stream" || ext == "" {
		br := bufio.NewReaderSize(body, 3072)
		head, err := br.Peek(3072)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return "", nil, "", err
		}

		mt := mimetype.Detect(head)
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = mt.String()
		}
		if ext == "" {
			ext = mt.Extension()
		}
		body = br
	}

	return uuid.NewString() + ext, body, contentType, nil
}

// ObjectKeyFromURL ключ объекта это последний сегмент пути публичного URL
func ObjectKeyFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	key := path.Base(u.Path)
	if key == "." || key == "/" || key == "" {
		return "", fmt.Errorf("could not extract object key from %q", raw)
	}

	return key, nil
}
