package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/conexus/internal/connect"
	"github.com/MrSnakeDoc/conexus/internal/logger"
)

// ConnectOptions defines the Redis client and its startup probe.
type ConnectOptions struct {
	Addr         string        // Redis address (ex: "localhost:6379")
	User         string        // Optional username
	Password     string        // Optional password
	RedisDB      int           // Redis DB number
	DialTimeout  time.Duration // Redis dial timeout
	ReadTimeout  time.Duration // Redis read timeout
	WriteTimeout time.Duration // Redis write timeout
	PoolSize     int           // Redis connection pool size

	// Probe is the startup connectivity budget. Name and Target are filled in.
	Probe connect.Options
}

// NewClient builds the client without touching the network.
func NewClient(opts ConnectOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            opts.Addr,
		Username:        opts.User,
		Password:        opts.Password,
		DB:              opts.RedisDB,
		DialTimeout:     opts.DialTimeout,
		ReadTimeout:     opts.ReadTimeout,
		WriteTimeout:    opts.WriteTimeout,
		PoolSize:        opts.PoolSize,
		DisableIdentity: true,
	})
}

// New creates a Redis client and waits until it answers PING, within the
// probe budget. The client is closed when the probe gives up.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	client := NewClient(opts)

	probe := opts.Probe
	probe.Name = "redis"
	probe.Target = opts.Addr

	err := connect.Wait(ctx, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}, probe, log)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
