// Package config defines the environment-driven configuration of the server.
package config

import "time"

type Config struct {
	Web  Web
	DB   DB
	Cors Cors
	Rate Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:storefront"`
	DisableTLS   bool   `conf:"default:true"`
	MaxOpenConns int    `conf:"default:25"`
	MaxIdleConns int    `conf:"default:5"`
}

type Cors struct {
	Origin string
}

type Rate struct {
	// Disabled turns the per-client limiter off, for test environments.
	Disabled bool          `conf:"default:false"`
	Burst    int           `conf:"default:20"`
	RPS      float64       `conf:"default:10"`
	Expiry   time.Duration `conf:"default:10m"`
}
