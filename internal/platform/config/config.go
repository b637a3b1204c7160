// Package config loads service configuration from the environment and an
// optional config.yaml using viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds broker settings shared by producers and consumers.
type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	GroupPrefix string
}

// Load returns a viper instance reading <prefix>_* environment variables
// and, when present, ./config.yaml or ./config/config.yaml.
func Load(prefix string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_ENABLED", true)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// GetAppEnv returns the deployment environment (development, production, ...).
func GetAppEnv(v *viper.Viper) string {
	return strings.ToLower(v.GetString("APP_ENV"))
}

// GetServicePort returns the listen address for key, always prefixed with ":".
func GetServicePort(v *viper.Viper, key string) string {
	port := v.GetString(key)
	if port == "" {
		port = "8080"
	}
	if !strings.Contains(port, ":") {
		port = ":" + port
	}
	return port
}

// LoadDatabaseConfig reads the DB_* keys; nameKey selects the database name.
func LoadDatabaseConfig(v *viper.Viper, nameKey string) DatabaseConfig {
	return DatabaseConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetString("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		DBName:   v.GetString(nameKey),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}
}

// LoadKafkaConfig reads the KAFKA_* keys. Brokers are comma separated.
func LoadKafkaConfig(v *viper.Viper) KafkaConfig {
	var brokers []string
	for _, b := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return KafkaConfig{
		Enabled:     v.GetBool("KAFKA_ENABLED") && len(brokers) > 0,
		Brokers:     brokers,
		GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
	}
}
