// Package redis provides Redis client utilities.
package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options selects the redis server.
type Options struct {
	Host     string
	Port     string
	Password string
	// TLS defaults to on whenever a password is set.
	DisableTLS bool
}

// NewClient creates a Redis client and verifies the connection.
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	options := &redis.Options{
		Addr:     net.JoinHostPort(opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	}

	// Enable TLS for production environments when password is set
	if opts.Password != "" && !opts.DisableTLS {
		options.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", options.Addr, err)
	}

	return client, nil
}
