package main

import (
	"fmt"

	"github.com/aretw0/heddle"
	"github.com/aretw0/heddle/internal/config"
	"github.com/aretw0/heddle/pkg/adapters/file"
	"github.com/aretw0/heddle/pkg/adapters/memory"
	"github.com/aretw0/heddle/pkg/adapters/redis"
	"github.com/aretw0/heddle/pkg/document"
	"github.com/aretw0/heddle/pkg/persistence/middleware"
	"github.com/aretw0/heddle/pkg/ports"
	"github.com/aretw0/heddle/pkg/session"
)

// newManager builds the session manager for the configured backend, wrapping the store
// in mws. The returned function releases backend connections.
func newManager(c *config.Config, mws []middleware.Middleware, wsOpts ...heddle.Option) (*session.Manager, func() error, error) {
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithWorkspaceOptions(append([]heddle.Option{heddle.WithLogger(logger)}, wsOpts...)...),
	}
	closer := func() error { return nil }

	var store ports.DocumentStore
	switch c.Store.Backend {
	case "memory":
		store = memory.NewStore()
	case "file":
		store = file.New(c.Store.Dir, file.WithFormat(document.Format(c.Store.Format)))
	case "redis":
		rs := redis.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB,
			redis.WithPrefix(c.Redis.Prefix),
			redis.WithTTL(c.Redis.TTL),
		)
		store = rs
		closer = rs.Close
		if c.Redis.Lock {
			opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), c.Redis.Prefix)))
		}
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	logger.Debug("workspace store ready", "backend", c.Store.Backend)
	return session.NewManager(middleware.Chain(store, mws...), opts...), closer, nil
}
