package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/lib/logger/sl"
	"agri_trade/internal/repository"

	"github.com/patrickmn/go-cache"
)

var ErrInvalidProvider = errors.New("invalid CDN provider")

const settingsCacheKey = "settings"

// SettingsView ответ API настроек. nil поля сериализуются в null
type SettingsView struct {
	CDNEnabled  bool    `json:"cdnEnabled"`
	CDNURL      *string `json:"cdnUrl"`
	CDNProvider *string `json:"cdnProvider"`
}

type SettingsService struct {
	log       *slog.Logger
	repo      repository.SettingsRepository
	providers map[string]string
	cache     *cache.Cache
}

func NewSettingsService(log *slog.Logger, repo repository.SettingsRepository, providers map[string]string, cacheTTL time.Duration) *SettingsService {
	return &SettingsService{
		log:       log,
		repo:      repo,
		providers: providers,
		cache:     cache.New(cacheTTL, 2*cacheTTL),
	}
}

// GetSettings читает строку настроек, результат кешируется
func (s *SettingsService) GetSettings(ctx context.Context) (models.Settings, error) {
	const op = "service.SettingsService.GetSettings"

	if v, ok := s.cache.Get(settingsCacheKey); ok {
		return v.(models.Settings), nil
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		s.log.Error("failed to fetch settings", slog.String("op", op), sl.Err(err))
		return models.Settings{}, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Set(settingsCacheKey, settings, cache.DefaultExpiration)
	return settings, nil
}

func (s *SettingsService) View(ctx context.Context) (SettingsView, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return SettingsView{}, err
	}

	view := SettingsView{CDNEnabled: settings.CDNEnabled}
	if settings.CDNURL != "" {
		u := settings.CDNURL
		view.CDNURL = &u
		view.CDNProvider = s.providerFor(u)
	}

	return view, nil
}

// UpdateSettings включает CDN выбранного провайдера или выключает его
func (s *SettingsService) UpdateSettings(ctx context.Context, enabled bool, provider string) (SettingsView, error) {
	const op = "service.SettingsService.UpdateSettings"
	log := s.log.With(
		slog.String("op", op),
		slog.Bool("enabled", enabled),
		slog.String("provider", provider),
	)

	cdnURL := ""
	if enabled && provider != "" {
		u, ok := s.providers[provider]
		if !ok || u == "" {
			return SettingsView{}, fmt.Errorf("%s: %w", op, ErrInvalidProvider)
		}
		cdnURL = u
	}

	if err := s.repo.UpdateSettings(ctx, models.Settings{CDNEnabled: enabled, CDNURL: cdnURL}); err != nil {
		log.Error("failed to update settings", sl.Err(err))
		return SettingsView{}, fmt.Errorf("%s: %w", op, err)
	}
	s.cache.Delete(settingsCacheKey)

	log.Info("settings updated")

	view := SettingsView{CDNEnabled: enabled}
	if cdnURL != "" {
		view.CDNURL = &cdnURL
	}
	if enabled && provider != "" {
		p := provider
		view.CDNProvider = &p
	}

	return view, nil
}

// Providers отсортированные имена провайдеров
func (s *SettingsService) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *SettingsService) providerFor(url string) *string {
	for _, name := range s.Providers() {
		if s.providers[name] == url {
			return &name
		}
	}
	return nil
}
