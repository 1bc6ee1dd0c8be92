// Package cache provides the Valkey (Redis-compatible) client and the JSON
// response cache for read-heavy API endpoints.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// dialTimeout bounds both the TCP dial and the start-up ping.
const dialTimeout = 5 * time.Second

// Endpoint locates a Valkey server and logical database.
type Endpoint struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr joins Host and Port, bracketing IPv6 literals.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, e.Port)
}

// ConnectValkey returns a client for e once it answers a ping. The ping
// gives up after dialTimeout or when ctx ends.
func ConnectValkey(ctx context.Context, e Endpoint) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        e.Addr(),
		Password:    e.Password,
		DB:          e.DB,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", e.Addr(), err)
	}

	slog.Info("valkey connected", "addr", e.Addr(), "db", e.DB)
	return client, nil
}
