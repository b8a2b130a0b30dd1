package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(addr, password string, db int) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// MustConnect создает клиента и проверяет соединение
func MustConnect(ctx context.Context, addr, password string, db int) *Client {
	const op = "storage.redis.MustConnect"

	c := NewClient(addr, password, db)
	if err := c.HealthCheck(ctx); err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	return c
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
