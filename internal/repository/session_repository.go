package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/storage"

	"github.com/redis/go-redis/v9"
)

// RedisSessionRepo хранит активные сессии администраторов
type RedisSessionRepo struct {
	client redis.Cmdable
}

func NewRedisSessionRepo(client redis.Cmdable) *RedisSessionRepo {
	return &RedisSessionRepo{client: client}
}

func (r *RedisSessionRepo) SaveSession(ctx context.Context, session models.Session, ttl time.Duration) error {
	const op = "repository.RedisSessionRepo.SaveSession"

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisSessionRepo) GetSession(ctx context.Context, id string) (models.Session, error) {
	const op = "repository.RedisSessionRepo.GetSession"

	val, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Session{}, fmt.Errorf("%s: %w", op, storage.ErrSessionNotFound)
		}
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var session models.Session
	if err := json.Unmarshal(val, &session); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return session, nil
}

func (r *RedisSessionRepo) DeleteSession(ctx context.Context, id string) error {
	const op = "repository.RedisSessionRepo.DeleteSession"

	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}
