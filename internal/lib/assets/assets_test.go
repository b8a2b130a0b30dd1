package assets_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/lib/assets"

	"github.com/stretchr/testify/assert"
)

func TestRewriter_Rewrite(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		url      string
		expected string
	}{
		{
			name:     "emulator url",
			base:     "https://cdn.example.com",
			url:      "http://localhost:8000/storage/v1/object/public/images/x.webp",
			expected: "https://cdn.example.com/storage/v1/object/public/images/x.webp",
		},
		{
			name:     "base with trailing slash",
			base:     "https://cdn.example.com/",
			url:      "http://localhost:8000/storage/v1/object/public/images/x.webp",
			expected: "https://cdn.example.com/storage/v1/object/public/images/x.webp",
		},
		{
			name:     "foreign url passes through",
			base:     "https://cdn.example.com",
			url:      "https://other.example.com/storage/v1/object/public/images/x.webp",
			expected: "https://other.example.com/storage/v1/object/public/images/x.webp",
		},
		{
			name:     "different port passes through",
			base:     "https://cdn.example.com",
			url:      "http://localhost:80001/x.webp",
			expected: "http://localhost:80001/x.webp",
		},
		{
			name:     "no public base",
			base:     "",
			url:      "http://localhost:8000/x.webp",
			expected: "http://localhost:8000/x.webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := assets.NewRewriter("", tt.base)
			assert.Equal(t, tt.expected, r.Rewrite(tt.url))
		})
	}
}

type stubSettings struct {
	settings models.Settings
	err      error
}

func (s stubSettings) GetSettings(context.Context) (models.Settings, error) {
	return s.settings, s.err
}

func TestResolver_Resolve(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		settings assets.SettingsProvider
		baseURL  string
		path     string
		expected string
	}{
		{
			name:     "cdn enabled",
			settings: stubSettings{settings: models.Settings{CDNEnabled: true, CDNURL: "https://066e9a4f-a.b-cdn.net/"}},
			baseURL:  "https://static.example.com",
			path:     "/metal/1.jpg",
			expected: "https://066e9a4f-a.b-cdn.net/metal/1.jpg",
		},
		{
			name:     "cdn disabled falls back to base",
			settings: stubSettings{settings: models.Settings{CDNEnabled: false, CDNURL: "https://066e9a4f-a.b-cdn.net"}},
			baseURL:  "https://static.example.com",
			path:     "metal/1.jpg",
			expected: "https://static.example.com/metal/1.jpg",
		},
		{
			name:     "settings error falls back to base",
			settings: stubSettings{err: errors.New("db down")},
			baseURL:  "https://static.example.com",
			path:     "/metal/1.jpg",
			expected: "https://static.example.com/metal/1.jpg",
		},
		{
			name:     "relative path",
			settings: stubSettings{},
			path:     "/metal/1.jpg",
			expected: "/metal/1.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := assets.NewResolver(log, tt.settings, tt.baseURL)
			assert.Equal(t, tt.expected, r.Resolve(context.Background(), tt.path))
		})
	}
}
