package config

import (
	"fmt"
	"strings"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/booking"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/config"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port               string
	AppEnv             string
	Storage            string
	AvailabilityPolicy string
	Currency           string
	DBConfig           config.DatabaseConfig
	KafkaConfig        config.KafkaConfig
}

// Load reads configuration from BOOKING_* environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("BOOKING")
	if err != nil {
		return nil, err
	}
	v.SetDefault("DB_NAME", "soundhire_booking")
	v.SetDefault("STORAGE", StoragePostgres)
	v.SetDefault("AVAILABILITY_POLICY", booking.PolicyRange)
	v.SetDefault("CURRENCY", money.CurrencyUSD)

	cfg := &ServiceConfig{
		Port:               config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:             config.GetAppEnv(v),
		Storage:            strings.ToLower(v.GetString("STORAGE")),
		AvailabilityPolicy: strings.ToLower(v.GetString("AVAILABILITY_POLICY")),
		Currency:           strings.ToUpper(v.GetString("CURRENCY")),
		DBConfig:           config.LoadDatabaseConfig(v, "DB_NAME"),
		KafkaConfig:        config.LoadKafkaConfig(v),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown storage backends, policies and currencies.
func (c *ServiceConfig) Validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	if _, err := booking.NewAvailabilityPolicy(c.AvailabilityPolicy); err != nil {
		return err
	}
	if _, err := money.New(0, c.Currency); err != nil {
		return fmt.Errorf("invalid currency %q: %w", c.Currency, err)
	}
	return nil
}
