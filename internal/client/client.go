// Package client assembles the per-profile client state layer used by the
// terminal UI and telectl: profile lock, persisted store, event bus,
// scheduler and composer.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheus3301/teleclone/internal/bus"
	"github.com/matheus3301/teleclone/internal/compose"
	"github.com/matheus3301/teleclone/internal/config"
	"github.com/matheus3301/teleclone/internal/convo"
	"github.com/matheus3301/teleclone/internal/lock"
	"github.com/matheus3301/teleclone/internal/profile"
	"github.com/matheus3301/teleclone/internal/proxyclient"
	"github.com/matheus3301/teleclone/internal/schedule"
	"github.com/matheus3301/teleclone/internal/store"
	"go.uber.org/zap"
)

// Params configures Open.
type Params struct {
	Profile string
	Config  *config.Config
	// Program is recorded in the profile lock, e.g. "teleclone".
	Program string
	Logger  *zap.Logger
	// Clock drives delayed replies. Nil uses the wall clock.
	Clock schedule.Clock
	// Assistant overrides the proxy client, mainly for tests.
	Assistant compose.Assistant
}

// Client is an opened profile. Close releases everything in reverse order.
type Client struct {
	Profile  string
	Bus      *bus.Bus
	Store    *convo.Store
	Composer *compose.Composer
	// Seeded reports whether Open populated an empty profile.
	Seeded bool

	lock   *lock.Lock
	kv     store.KV
	logger *zap.Logger
}

// Open locks the profile, opens its state backend and wires the client
// components. The default contact directory is written on first use.
func Open(ctx context.Context, p Params) (*Client, error) {
	if p.Config == nil {
		p.Config = config.Default()
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if err := profile.ValidateName(p.Profile); err != nil {
		return nil, err
	}
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	lk, err := lock.Acquire(profile.Dir(p.Profile), p.Program)
	if err != nil {
		return nil, err
	}

	kv, err := openBackend(ctx, p)
	if err != nil {
		_ = lk.Release()
		return nil, err
	}

	b := bus.New()
	st := convo.New(kv, b, p.Logger.Named("convo"))
	seeded, err := st.Bootstrap(ctx)
	if err != nil {
		_ = kv.Close()
		_ = lk.Release()
		return nil, fmt.Errorf("bootstrap profile: %w", err)
	}
	if seeded {
		p.Logger.Info("profile initialised with default contacts")
	}

	assistant := p.Assistant
	if assistant == nil {
		assistant = proxyclient.New(p.Config.Client.ProxyURL, p.Config.Client.RequestTimeout(), p.Logger.Named("proxy"))
	}
	comp := compose.New(st, assistant, schedule.New(p.Clock), b, p.Logger.Named("compose"), compose.Options{
		SimulateReplies: p.Config.Client.SimulateReplies,
	})

	return &Client{
		Profile:  p.Profile,
		Bus:      b,
		Store:    st,
		Composer: comp,
		Seeded:   seeded,
		lock:     lk,
		kv:       kv,
		logger:   p.Logger,
	}, nil
}

func openBackend(ctx context.Context, p Params) (store.KV, error) {
	switch p.Config.Client.Backend {
	case config.BackendRedis:
		r, err := store.OpenRedis(ctx, p.Config.Client.RedisAddr, profile.RedisPrefix(p.Profile))
		if err != nil {
			return nil, fmt.Errorf("open redis backend: %w", err)
		}
		p.Logger.Info("using redis backend", zap.String("addr", p.Config.Client.RedisAddr))
		return r, nil
	default:
		db, res, err := store.OpenMigrated(profile.StateDBPath(p.Profile))
		if err != nil {
			return nil, fmt.Errorf("open state db: %w", err)
		}
		if res.Changed {
			p.Logger.Info("state db migrated", zap.Uint("version", res.Version))
		}
		return db, nil
	}
}

// Close cancels pending replies, closes the backend and releases the lock.
func (c *Client) Close() error {
	c.Composer.Close()
	var errs []error
	if err := c.kv.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close backend: %w", err))
	}
	if err := c.lock.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release lock: %w", err))
	}
	_ = c.logger.Sync()
	return errors.Join(errs...)
}
