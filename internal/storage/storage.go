package storage

import "errors"

var (
	ErrGalleryNotFound = errors.New("gallery not found")
	ErrAdminExists     = errors.New("admin already exists")
	ErrAdminNotFound   = errors.New("admin not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrSettingsMissing = errors.New("settings row missing")
)

var (
	ErrFileTooLarge   = errors.New("file size exceeds limit")
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)
