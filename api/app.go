package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/warp/finance-engine/cache"
	"github.com/warp/finance-engine/config"
	"github.com/warp/finance-engine/history"
	"github.com/warp/finance-engine/store/sqlite"
)

// App is a fully wired server: store, cache, limiter, retention
// scheduler and HTTP listener, built from one Config.
type App struct {
	Config    *config.Config
	Handler   *Handler
	Server    *http.Server
	Scheduler *RetentionScheduler

	limiter *RateLimiter
	closers []func() error
}

// NewApp builds the server described by cfg. Nothing is started.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	if s, ok := store.(*sqlite.Store); ok {
		app.closers = append(app.closers, s.Close)
	}

	c := app.openCache(cfg)

	app.Handler = NewHandler(store, c)

	opts := RouterOptions{AllowedOrigins: cfg.Server.CORSOrigins}
	if cfg.RateLimit.Requests > 0 {
		app.limiter = NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window.Duration)
		opts.Limiter = app.limiter
	}

	app.Scheduler = NewRetentionScheduler(store, cfg.RetentionWindow())
	app.Scheduler.CheckInterval = cfg.Retention.Interval.Duration
	if m, ok := c.(*cache.Memory); ok {
		app.Scheduler.Cache = m
	}
	app.Handler.Retention = app.Scheduler

	app.Server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      NewRouter(app.Handler, opts),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}
	return app, nil
}

func openStore(cfg *config.Config) (history.Store, error) {
	if cfg.Storage.Driver == "memory" {
		log.Println("[History] Using in-memory store")
		return history.NewMemory(), nil
	}
	store, err := sqlite.New(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	log.Printf("[History] Using SQLite store at %s", cfg.Storage.Path)
	return store, nil
}

// openCache returns the configured cache, or nil when caching is off.
// An unreachable Redis falls back to the memory cache.
func (app *App) openCache(cfg *config.Config) cache.Cache {
	ttl := cfg.Cache.TTL.Duration
	switch cfg.Cache.Driver {
	case "none":
		log.Println("[Cache] Disabled")
		return nil
	case "redis":
		r := cache.NewRedis(cfg.Cache.RedisAddr, ttl)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := r.Ping(ctx); err != nil {
			log.Printf("[Cache] Redis unavailable at %s (%v), falling back to memory", cfg.Cache.RedisAddr, err)
			r.Close()
			return cache.NewMemory(ttl)
		}
		log.Printf("[Cache] Using Redis at %s (ttl %v)", cfg.Cache.RedisAddr, ttl)
		app.closers = append(app.closers, r.Close)
		return r
	default:
		log.Printf("[Cache] Using in-memory cache (ttl %v)", ttl)
		return cache.NewMemory(ttl)
	}
}

// Start launches the retention scheduler and the listener. Listener
// errors other than http.ErrServerClosed are sent on the returned channel.
func (app *App) Start() <-chan error {
	app.Scheduler.Start()

	errs := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on http://%s", app.Server.Addr)
		log.Printf("📊 API available at http://%s/api", app.Server.Addr)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
		close(errs)
	}()
	return errs
}

// Shutdown stops accepting requests, waits for active ones, then stops
// the background workers and closes the store and cache.
func (app *App) Shutdown(ctx context.Context) error {
	err := app.Server.Shutdown(ctx)
	app.Close()
	return err
}

// Close releases everything except the listener.
func (app *App) Close() {
	app.Scheduler.Stop()
	if app.limiter != nil {
		app.limiter.Stop()
	}
	for _, c := range app.closers {
		if err := c(); err != nil {
			log.Printf("Warning: close failed: %v", err)
		}
	}
	app.closers = nil
}
