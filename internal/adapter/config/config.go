package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database  *Database
	HTTP      *HTTP
	Inventory *Inventory
	Auth      *Auth
	Redis     *Redis
	App       *App
	Policy    *Policy
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Inventory struct {
	HostString     string `env:"INVENTORY_SYSTEM_ADDRESS"`
	TimeoutSeconds int    `env:"INVENTORY_TIMEOUT_SECONDS" envDefault:"5"`
}

type Auth struct {
	HostString     string `env:"AUTH_SYSTEM_ADDRESS"`
	TimeoutSeconds int    `env:"AUTH_TIMEOUT_SECONDS" envDefault:"5"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDRESS"`
	Password string `env:"REDIS_PASSWORD"`
}

type Policy struct {
	// DeleteFinalizedOrders allows soft-deleting shipped or delivered
	// orders. The business has not decided whether that is intended, so
	// it ships as a knob instead of an assumption.
	DeleteFinalizedOrders bool `env:"POLICY_DELETE_FINALIZED_ORDERS" envDefault:"false"`
	PaymentTermDays       int  `env:"POLICY_PAYMENT_TERM_DAYS" envDefault:"30"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var inventory Inventory
	var auth Auth
	var redis Redis
	var app App
	var policy Policy

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&inventory.HostString, "i", "", "Inventory system address")
	flag.StringVar(&auth.HostString, "s", "", "Auth system address")
	flag.StringVar(&redis.Addr, "r", "", "Redis address")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&inventory)
	if err != nil {
		return nil, fmt.Errorf("error parsing inventory config: %w", err)
	}
	err = env.Parse(&auth)
	if err != nil {
		return nil, fmt.Errorf("error parsing auth config: %w", err)
	}
	err = env.Parse(&redis)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}
	err = env.Parse(&policy)
	if err != nil {
		return nil, fmt.Errorf("error parsing policy config: %w", err)
	}

	config := Config{
		Database:  &db,
		HTTP:      &http,
		Inventory: &inventory,
		Auth:      &auth,
		Redis:     &redis,
		App:       &app,
		Policy:    &policy,
	}

	return &config, nil
}
