package config

import (
	"time"

	"notetaker/utils"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Session  SessionConfig
	OpenAI   OpenAIConfig
}

type ServerConfig struct {
	Port           string
	MaxRequestSize int64
}

type DatabaseConfig struct {
	URI             string
	DatabaseName    string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	RetryWrites     bool
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	SecretKey         string
	AccessExpiration  time.Duration
	RefreshExpiration time.Duration
	Issuer            string
}

type SessionConfig struct {
	Duration          time.Duration
	InactivityTimeout time.Duration
	MaxActiveSessions int
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Load reads the full configuration from the environment.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           utils.GetEnvAsString("PORT", "8080"),
			MaxRequestSize: int64(utils.GetEnvAsInt("MAX_REQUEST_SIZE", 1<<20)),
		},
		Database: DatabaseConfig{
			URI:             utils.GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
			DatabaseName:    utils.GetEnvAsString("MONGO_DB", "notetaker"),
			MaxPoolSize:     utils.GetEnvAsUint64("MONGO_MAX_POOL_SIZE", 100),
			MinPoolSize:     utils.GetEnvAsUint64("MONGO_MIN_POOL_SIZE", 10),
			MaxConnIdleTime: utils.GetEnvAsDuration("MONGO_MAX_CONN_IDLE_TIME", 60*time.Second),
			RetryWrites:     utils.GetEnvAsBool("MONGO_RETRY_WRITES", true),
		},
		Redis: RedisConfig{
			URL: utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/0"),
		},
		JWT: JWTConfig{
			SecretKey:         utils.GetEnvAsString("JWT_SECRET_KEY", ""),
			AccessExpiration:  utils.GetEnvAsDuration("JWT_EXPIRATION_TIME", time.Hour),
			RefreshExpiration: utils.GetEnvAsDuration("REFRESH_TOKEN_EXPIRATION_TIME", 7*24*time.Hour),
			Issuer:            utils.GetEnvAsString("JWT_ISSUER", "notetaker"),
		},
		Session: SessionConfig{
			Duration:          utils.GetEnvAsDuration("SESSION_DURATION", 24*time.Hour),
			InactivityTimeout: utils.GetEnvAsDuration("SESSION_INACTIVITY_TIMEOUT", 48*time.Hour),
			MaxActiveSessions: utils.GetEnvAsInt("MAX_ACTIVE_SESSIONS", 5),
		},
		OpenAI: OpenAIConfig{
			APIKey:  utils.GetEnvAsString("OPENAI_API_KEY", ""),
			Model:   utils.GetEnvAsString("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: utils.GetEnvAsString("OPENAI_BASE_URL", ""),
		},
	}
}
