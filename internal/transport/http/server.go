package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/lib/logger/sl"
	galleryservice "agri_trade/internal/services/gallery_service"
	"agri_trade/internal/services/localgallery"
	"agri_trade/internal/storage"
	"agri_trade/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	_ "agri_trade/docs"
)

type GalleryService interface {
	ListGalleries(ctx context.Context) ([]models.GalleryWithImages, error)
	CreateGallery(ctx context.Context, in galleryservice.CreateGalleryInput) (*galleryservice.CreateGalleryResult, error)
	UpdateGallery(ctx context.Context, id uuid.UUID, in galleryservice.UpdateGalleryInput) (*galleryservice.UpdateGalleryResult, error)
	DeleteGallery(ctx context.Context, id uuid.UUID) error
}

type LocalGalleryService interface {
	Galleries(ctx context.Context) []localgallery.Gallery
}

type Routers struct {
	log                 *slog.Logger
	GalleryService      GalleryService
	LocalGalleryService LocalGalleryService
	AccountService      AccountService
	SessionService      SessionService
	SettingsService     SettingsService
	AssetResolver       AssetResolver
	HealthChecks        map[string]HealthCheckFunc
	Cookie              CookieConfig
}

type Services struct {
	Gallery      GalleryService
	LocalGallery LocalGalleryService
	Account      AccountService
	Session      SessionService
	Settings     SettingsService
	Assets       AssetResolver
}

func NewRouter(log *slog.Logger, services Services, cookie CookieConfig, healthChecks map[string]HealthCheckFunc) *Routers {
	return &Routers{
		log:                 log,
		GalleryService:      services.Gallery,
		LocalGalleryService: services.LocalGallery,
		AccountService:      services.Account,
		SessionService:      services.Session,
		SettingsService:     services.Settings,
		AssetResolver:       services.Assets,
		HealthChecks:        healthChecks,
		Cookie:              cookie,
	}
}

var ErrInvalidUUID = errors.New("not valid UUID")

// ListGalleries godoc
// @Summary Список галерей
// @Description Все галереи с изображениями. Ошибка чтения изображений одной галереи отдаётся в поле error
// @Tags gallery
// @Produce json
// @Success 200 {array} models.GalleryWithImages
// @Failure 500 {object} response.ErrorResponse
// @Router /api/gallery [get]
func (r *Routers) ListGalleries(c echo.Context) error {
	const op = "http.routers.ListGalleries"

	galleries, err := r.GalleryService.ListGalleries(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list galleries", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Upstream("Failed to fetch galleries"))
	}

	if galleries == nil {
		galleries = []models.GalleryWithImages{}
	}

	return c.JSON(http.StatusOK, galleries)
}

// ListLocalGalleries godoc
// @Summary Галерея из статики
// @Tags gallery
// @Produce json
// @Success 200 {array} localgallery.Gallery
// @Router /api/gallery/local [get]
func (r *Routers) ListLocalGalleries(c echo.Context) error {
	return c.JSON(http.StatusOK, r.LocalGalleryService.Galleries(c.Request().Context()))
}

// CreateGallery godoc
// @Summary Создать галерею
// @Tags gallery
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Заголовок"
// @Param description formData string true "Описание"
// @Param images formData file true "Изображения (одно или несколько)"
// @Param coverImageIndex formData integer false "Индекс обложки в пачке, по умолчанию 0"
// @Param locations formData string false "JSON массив подписей, параллельный images"
// @Success 200 {object} galleryservice.CreateGalleryResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/gallery [post]
func (r *Routers) CreateGallery(c echo.Context) error {
	const op = "http.routers.CreateGallery"

	log := r.log.With(
		slog.String("op", op),
	)

	form, err := c.MultipartForm()
	if err != nil {
		log.Warn("invalid multipart form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	locations, err := parseLocations(form)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.Validation("locations must be a JSON array of strings"))
	}

	images, closeAll, err := openImages(form, "images", "images[]")
	defer closeAll()
	if err != nil {
		log.Warn("failed to open uploaded images", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.Validation("failed to read uploaded images"))
	}

	res, err := r.GalleryService.CreateGallery(c.Request().Context(), galleryservice.CreateGalleryInput{
		Title:           formValue(form, "title"),
		Description:     formValue(form, "description"),
		Images:          images,
		CoverImageIndex: parseCoverIndex(formValue(form, "coverImageIndex")),
		Locations:       locations,
	})
	if err != nil {
		return r.galleryError(c, log, err, "Failed to create gallery")
	}

	return c.JSON(http.StatusOK, res)
}

// UpdateGallery godoc
// @Summary Обновить галерею
// @Description Отсутствующие title/description сохраняют текущее значение. coverImageIndex относится к новой пачке
// @Tags gallery
// @Accept multipart/form-data
// @Produce json
// @Param id query string true "UUID галереи" format(uuid)
// @Param title formData string false "Заголовок"
// @Param description formData string false "Описание"
// @Param newImages formData file false "Новые изображения"
// @Param coverImageIndex formData integer false "Индекс обложки в новой пачке"
// @Param locations formData string false "JSON массив подписей, параллельный newImages"
// @Success 200 {object} galleryservice.UpdateGalleryResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/gallery [patch]
func (r *Routers) UpdateGallery(c echo.Context) error {
	const op = "http.routers.UpdateGallery"

	log := r.log.With(
		slog.String("op", op),
		slog.String("id", c.QueryParam("id")),
	)

	id, err := parseGalleryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.Validation(err.Error()))
	}

	in := galleryservice.UpdateGalleryInput{}

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		log.Warn("invalid multipart form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if form != nil {
		locations, err := parseLocations(form)
		if err != nil {
			return c.JSON(http.StatusBadRequest, response.Validation("locations must be a JSON array of strings"))
		}

		images, closeAll, err := openImages(form, "newImages", "newImages[]")
		defer closeAll()
		if err != nil {
			log.Warn("failed to open uploaded images", sl.Err(err))
			return c.JSON(http.StatusBadRequest, response.Validation("failed to read uploaded images"))
		}

		in.Title = optionalValue(form, "title")
		in.Description = optionalValue(form, "description")
		in.Images = images
		in.CoverImageIndex = parseCoverIndex(formValue(form, "coverImageIndex"))
		in.Locations = locations
	}

	res, err := r.GalleryService.UpdateGallery(c.Request().Context(), id, in)
	if err != nil {
		return r.galleryError(c, log, err, "Failed to update gallery")
	}

	return c.JSON(http.StatusOK, res)
}

// DeleteGallery godoc
// @Summary Удалить галерею
// @Description Удаляет блобы изображений (best effort), строки изображений и галерею
// @Tags gallery
// @Produce json
// @Param id query string true "UUID галереи" format(uuid)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/gallery [delete]
func (r *Routers) DeleteGallery(c echo.Context) error {
	const op = "http.routers.DeleteGallery"

	log := r.log.With(
		slog.String("op", op),
		slog.String("id", c.QueryParam("id")),
	)

	id, err := parseGalleryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.Validation(err.Error()))
	}

	if err := r.GalleryService.DeleteGallery(c.Request().Context(), id); err != nil {
		return r.galleryError(c, log, err, "Failed to delete gallery")
	}

	return c.JSON(http.StatusOK, response.MessageResponse("Gallery and associated images deleted successfully"))
}

func (r *Routers) galleryError(c echo.Context, log *slog.Logger, err error, upstreamMessage string) error {
	switch {
	case errors.Is(err, galleryservice.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, response.Validation(validationDetails(err, galleryservice.ErrInvalidInput)))
	case errors.Is(err, storage.ErrGalleryNotFound):
		return c.JSON(http.StatusNotFound, response.ErrGalleryNotFound)
	default:
		log.Error("gallery operation failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Upstream(upstreamMessage))
	}
}

func parseGalleryID(c echo.Context) (uuid.UUID, error) {
	raw := c.QueryParam("id")
	if raw == "" {
		return uuid.Nil, errors.New("ID is required")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return id, nil
}

// parseCoverIndex нечисловое значение даёт 0
func parseCoverIndex(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func parseLocations(form *multipart.Form) ([]string, error) {
	raw := formValue(form, "locations")
	if raw == "" {
		return nil, nil
	}

	var locations []string
	if err := json.Unmarshal([]byte(raw), &locations); err != nil {
		return nil, err
	}

	return locations, nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func optionalValue(form *multipart.Form, key string) *string {
	v, ok := form.Value[key]
	if !ok || len(v) == 0 {
		return nil
	}
	s := v[0]
	return &s
}

// openImages открывает файлы формы по порядку. closeAll безопасно звать всегда
func openImages(form *multipart.Form, fields ...string) ([]galleryservice.ImageUpload, func(), error) {
	var (
		files   []io.Closer
		uploads []galleryservice.ImageUpload
	)

	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, field := range fields {
		for _, fh := range form.File[field] {
			f, err := fh.Open()
			if err != nil {
				return nil, closeAll, err
			}
			files = append(files, f)

			uploads = append(uploads, galleryservice.ImageUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(echo.HeaderContentType),
				Size:        fh.Size,
				Body:        f,
			})
		}
	}

	return uploads, closeAll, nil
}

// validationDetails отрезает цепочку op-префиксов до текста после sentinel
func validationDetails(err error, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}
