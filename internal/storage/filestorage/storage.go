package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"agri_trade/internal/storage"
)

// LocalFileStorage хранит объекты галерей на локальном диске (dev и тесты)
type LocalFileStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
	baseURL string // Базовый URL для доступа к файлам (например: "http://localhost:8080/uploads")
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Upload записывает тело под ключом key и возвращает публичный URL
func (s *LocalFileStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	const op = "storage.filestorage.Upload"

	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("%s: failed to create directories: %w", op, err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("%s: failed to create destination file: %w", op, err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var copyErr error

	go func() {
		_, copyErr = io.Copy(dst, body)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(fullPath)
			return "", fmt.Errorf("%s: failed to copy file: %w", op, copyErr)
		}
	case <-ctx.Done():
		<-done
		_ = os.Remove(fullPath)
		return "", ctx.Err()
	}

	return s.URL(key), nil
}

// Delete удаляет файл из хранилища
func (s *LocalFileStorage) Delete(ctx context.Context, key string) error {
	const op = "storage.filestorage.Delete"

	fullPath, err := s.resolve(key)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", op, storage.ErrObjectNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Ping проверяет, что базовый каталог доступен
func (s *LocalFileStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(s.baseDir)
	if err != nil {
		return fmt.Errorf("storage.filestorage.Ping: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage.filestorage.Ping: %s is not a directory", s.baseDir)
	}
	return nil
}

// URL возвращает публичный адрес объекта
func (s *LocalFileStorage) URL(key string) string {
	return s.baseURL + "/" + key
}

// GetFullPath возвращает полный путь к файлу на диске
func (s *LocalFileStorage) GetFullPath(key string) string {
	return filepath.Join(s.baseDir, key)
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}

func (s *LocalFileStorage) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || filepath.IsAbs(key) {
		return "", storage.ErrInvalidKey
	}
	return filepath.Join(s.baseDir, filepath.Clean(key)), nil
}
