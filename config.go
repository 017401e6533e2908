package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type config struct {
	RedisConnectionString string        `env:"REDIS_CONNECTION_STRING,required"`
	ListenAddr            string        `env:"LISTEN_ADDR" envDefault:":8080"`
	StreamInterval        time.Duration `env:"STREAM_INTERVAL" envDefault:"5s"`
	Debug                 bool          `env:"DEBUG"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.StreamInterval <= 0 {
		return config{}, fmt.Errorf("STREAM_INTERVAL must be greater than zero")
	}
	return cfg, nil
}
