package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		Port string
	}
	Pricing struct {
		TaxRate     decimal.Decimal
		DeliveryFee decimal.Decimal
	}
	Tracking struct {
		ConfirmedDwell      time.Duration
		PreparingDwell      time.Duration
		OutForDeliveryDwell time.Duration
		TickInterval        time.Duration
	}
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. Every value has a default; malformed overrides are errors.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getEnv("APP_PORT", "8080")

	var err error
	if cfg.Pricing.TaxRate, err = decimalEnv("TAX_RATE", "0.08"); err != nil {
		return nil, err
	}
	if cfg.Pricing.DeliveryFee, err = decimalEnv("DELIVERY_FEE", "3.49"); err != nil {
		return nil, err
	}

	if cfg.Tracking.ConfirmedDwell, err = minutesEnv("DWELL_CONFIRMED_MINUTES", 5); err != nil {
		return nil, err
	}
	if cfg.Tracking.PreparingDwell, err = minutesEnv("DWELL_PREPARING_MINUTES", 10); err != nil {
		return nil, err
	}
	if cfg.Tracking.OutForDeliveryDwell, err = minutesEnv("DWELL_OUT_FOR_DELIVERY_MINUTES", 10); err != nil {
		return nil, err
	}

	tickSeconds, err := intEnv("TRACKING_TICK_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	cfg.Tracking.TickInterval = time.Duration(tickSeconds) * time.Second

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func decimalEnv(key, fallback string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func minutesEnv(key string, fallback int) (time.Duration, error) {
	v, err := intEnv(key, fallback)
	if err != nil {
		return 0, err
	}
	return time.Duration(v) * time.Minute, nil
}
