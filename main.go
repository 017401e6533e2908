package main

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"taskpulse-api/api"
	"taskpulse-api/domain"
	"taskpulse-api/storage"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	rc := redis.NewClient(redisOptions(cfg.RedisConnectionString))
	store := storage.New(rc)
	st := domain.NewStore(store)

	rehydrate(context.Background(), st, store)

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	logger := log.New()
	api.Register(e, st, store, logger, cfg.StreamInterval)

	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}

// rehydrate replays the persisted keys into the store before the listener
// starts, so the process never serves a half-loaded aggregate. Absent or
// corrupt keys keep their defaults.
func rehydrate(ctx context.Context, st *domain.Store, store *storage.Storage) {
	snap := store.Load(ctx)
	if snap.Theme != "" {
		st.Dispatch(ctx, domain.SetTheme{Theme: snap.Theme})
	}
	if snap.User != nil {
		st.Dispatch(ctx, domain.SetUser{User: *snap.User})
	}
	if snap.Tasks != nil {
		st.Dispatch(ctx, domain.ReplaceTasks{Tasks: snap.Tasks})
	}
}

func redisOptions(connStr string) *redis.Options {
	opts, err := redis.ParseURL(connStr)
	if err == nil {
		return opts
	}
	// Azure-style connection strings are comma separated key=value pairs
	// after the host, not URLs.
	parts := strings.Split(connStr, ",")
	opts = &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts
}
