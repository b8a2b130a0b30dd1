package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	httpapp "agri_trade/internal/app/http"
	"agri_trade/internal/config"
	"agri_trade/internal/lib/assets"
	"agri_trade/internal/lib/logger/sl"
	"agri_trade/internal/repository"
	accountservice "agri_trade/internal/services/account_service"
	galleryservice "agri_trade/internal/services/gallery_service"
	"agri_trade/internal/services/localgallery"
	sessionservice "agri_trade/internal/services/session_service"
	settingsservice "agri_trade/internal/services/settings_service"
	"agri_trade/internal/storage/filestorage"
	"agri_trade/internal/storage/postgresql"
	redisapp "agri_trade/internal/storage/redis"
	s3storage "agri_trade/internal/storage/s3"
	httprouters "agri_trade/internal/transport/http"

	"go.uber.org/multierr"
)

type objectStore interface {
	galleryservice.ObjectStorage
	Ping(ctx context.Context) error
}

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.Server
	db         *postgresql.Storage
	redis      *redisapp.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	const op = "app.New"

	db, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		panic(err)
	}

	rdb := redisapp.MustConnect(ctx, cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

	store, uploadsDir, err := newObjectStore(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	repo := repository.NewRepository(db.Pool(), rdb)

	settingsService := settingsservice.NewSettingsService(log, repo.Settings, cfg.CDN.Providers, cfg.CDN.CacheTTL)
	resolver := assets.NewResolver(log, settingsService, cfg.CDN.BaseURL)
	rewriter := assets.NewRewriter(cfg.Storage.EmulatorURL, cfg.Storage.PublicBaseURL)

	sessionService := sessionservice.NewSessionService(log, repo.Admin, repo.Session, cfg.Session.Secret, cfg.Session.TTL)

	services := httprouters.Services{
		Gallery:      galleryservice.NewGalleryService(log, repo.Gallery, store, rewriter),
		LocalGallery: localgallery.New(log, os.DirFS(cfg.LocalGallery.PublicDir), cfg.LocalGallery.Collections, resolver),
		Account:      accountservice.NewAccountService(log, repo.Admin),
		Session:      sessionService,
		Settings:     settingsService,
		Assets:       resolver,
	}

	healthChecks := map[string]httprouters.HealthCheckFunc{
		"postgres":       db.Ping,
		"redis":          rdb.HealthCheck,
		"object_storage": store.Ping,
	}

	routers := httprouters.NewRouter(log, services, httprouters.CookieConfig{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	}, healthChecks)

	server := httpapp.New(log, httpapp.Options{
		Host:           cfg.HTTP.Host,
		Port:           cfg.HTTP.Port,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		AllowOrigins:   cfg.HTTP.AllowOrigins,
		SessionSecret:  cfg.Session.Secret,
		CookieName:     cfg.Session.CookieName,
		MaxUploadSize:  cfg.Storage.MaxUploadSize,
		LoginRateLimit: cfg.HTTP.LoginRateLimit,
		UploadsDir:     uploadsDir,
	}, routers, sessionService)

	log.Info("application wired",
		slog.String("op", op),
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.Int("local_collections", len(cfg.LocalGallery.Collections)),
	)

	return &App{
		log:        log,
		HTTPServer: server,
		db:         db,
		redis:      rdb,
	}
}

// newObjectStore выбирает backend блобов. uploadsDir не пуст только для local
func newObjectStore(ctx context.Context, cfg *config.Config) (objectStore, string, error) {
	if cfg.Storage.Backend == config.StorageBackendLocal {
		fs, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
		if err != nil {
			return nil, "", err
		}
		return fs, fs.GetBaseDir(), nil
	}

	s, err := s3storage.New(ctx, s3storage.Options{
		Bucket:          cfg.Storage.Bucket,
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		return nil, "", err
	}

	return s, "", nil
}

// Stop гасит http и закрывает соединения. Ошибки собираются, а не прерывают остановку
func (a *App) Stop() error {
	const op = "app.Stop"

	var err error
	err = multierr.Append(err, a.HTTPServer.Stop())

	err = multierr.Append(err, a.redis.Close())

	a.db.Stop()

	if err != nil {
		a.log.Error("stop finished with errors", slog.String("op", op), sl.Err(err))
	}

	return err
}
