package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AccountRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type DeleteAccountRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SettingsRequest struct {
	CDNEnabled  bool   `json:"cdnEnabled"`
	CDNProvider string `json:"cdnProvider"`
}
