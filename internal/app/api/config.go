package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	userdomain "github.com/Apurer/user-management-api/internal/domains/users/domain"
	platformpostgres "github.com/Apurer/user-management-api/internal/platform/postgres"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port            string
	PostgresDSN     string
	Pool            platformpostgres.PoolConfig
	UserAgeLimit    int
	ShutdownTimeout time.Duration
}

// LoadConfig loads the optional dotenv file, reads environment variables,
// applies defaults, and validates basic constraints. Variables already set
// in the environment win over the dotenv file.
func LoadConfig() (Config, error) {
	envFile := envDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Config{
		Port:        envDefault("PORT", "8080"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
	}
	var err error
	if cfg.UserAgeLimit, err = envInt("USER_AGE_LIMIT", userdomain.DefaultAgeLimit, 0); err != nil {
		return Config{}, err
	}
	seconds, err := envInt("SHUTDOWN_TIMEOUT_SECONDS", 10, 1)
	if err != nil {
		return Config{}, err
	}
	cfg.ShutdownTimeout = time.Duration(seconds) * time.Second
	if cfg.Pool.MaxOpenConns, err = envInt("POSTGRES_MAX_OPEN_CONNS", 0, 0); err != nil {
		return Config{}, err
	}
	if cfg.Pool.MaxIdleConns, err = envInt("POSTGRES_MAX_IDLE_CONNS", 0, 0); err != nil {
		return Config{}, err
	}
	minutes, err := envInt("POSTGRES_CONN_MAX_LIFETIME_MINUTES", 0, 0)
	if err != nil {
		return Config{}, err
	}
	cfg.Pool.ConnMaxLifetime = time.Duration(minutes) * time.Minute
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback, min int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < min {
		return 0, fmt.Errorf("%s must be an integer >= %d", key, min)
	}
	return value, nil
}
