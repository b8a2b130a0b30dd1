package assets

import (
	"context"
	"log/slog"
	"strings"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/lib/logger/sl"
)

type SettingsProvider interface {
	GetSettings(ctx context.Context) (models.Settings, error)
}

// Resolver строит адрес статического ассета: CDN из настроек, затем базовый URL из конфига,
// иначе относительный путь того же origin
type Resolver struct {
	log      *slog.Logger
	settings SettingsProvider
	baseURL  string
}

func NewResolver(log *slog.Logger, settings SettingsProvider, baseURL string) *Resolver {
	return &Resolver{
		log:      log,
		settings: settings,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

func (r *Resolver) Resolve(ctx context.Context, path string) string {
	const op = "assets.Resolver.Resolve"

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if r.settings != nil {
		s, err := r.settings.GetSettings(ctx)
		if err != nil {
			r.log.Warn("failed to load cdn settings", slog.String("op", op), sl.Err(err))
		} else if s.CDNEnabled && s.CDNURL != "" {
			return strings.TrimSuffix(s.CDNURL, "/") + path
		}
	}

	if r.baseURL != "" {
		return r.baseURL + path
	}

	return path
}
