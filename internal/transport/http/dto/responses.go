package dto

import (
	"time"

	"github.com/google/uuid"
)

type AccountResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email"`
}

type SessionResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type SettingsUpdateResponse struct {
	Success  bool        `json:"success"`
	Settings interface{} `json:"settings"`
}

type AssetResponse struct {
	URL string `json:"url"`
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}
