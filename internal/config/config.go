package config

import (
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

// DSN returns the GORM/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the connection string in URL form, used by migrations.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// ServiceConfig holds all configuration for the matching service.
type ServiceConfig struct {
	Port   string
	AppEnv string

	DBConfig     DatabaseConfig
	JWTSecret    string
	KafkaBrokers []string

	ORSBaseURL string
	ORSAPIKey  string

	// MatchThreshold is the similarity a candidate must strictly exceed to be
	// returned. The path-finding call site historically passes 0: any
	// positive overlap counts.
	MatchThreshold float64
}

// Load reads configuration from MATCHING_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("MATCHING")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", ":8084")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "covelotage")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("ORS_BASE_URL", "https://api.openrouteservice.org")
	v.SetDefault("MATCH_THRESHOLD", 0.0)

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("MATCHING_JWT_SECRET is required")
	}

	threshold := v.GetFloat64("MATCH_THRESHOLD")
	if threshold < 0 || threshold >= 1 {
		return nil, fmt.Errorf("MATCH_THRESHOLD must be in [0,1), got %v", threshold)
	}

	return &ServiceConfig{
		Port:   port,
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTSecret:      jwtSecret,
		KafkaBrokers:   strings.Split(v.GetString("KAFKA_BROKERS"), ","),
		ORSBaseURL:     v.GetString("ORS_BASE_URL"),
		ORSAPIKey:      v.GetString("ORS_API_KEY"),
		MatchThreshold: threshold,
	}, nil
}
