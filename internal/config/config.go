package config

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	AppPort  string `env:"APP_PORT, default=8080"`
	Env      string `env:"ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret     string `env:"JWT_SECRET, default=dev-secret-change-me"`
	JWTTTLMinutes int    `env:"JWT_TTL_MINUTES, default=1440"`

	MySQLHost string `env:"MYSQL_HOST, default=mysql"`
	MySQLPort string `env:"MYSQL_PORT, default=3306"`
	MySQLDB   string `env:"MYSQL_DB, default=lending"`
	MySQLUser string `env:"MYSQL_USER, default=lending"`
	MySQLPass string `env:"MYSQL_PASS, default=lending"`

	RedisAddr string `env:"REDIS_ADDR, default=redis:6379"`
	RedisDB   int    `env:"REDIS_DB, default=0"`

	IdempTTLSecs int `env:"IDEMPOTENCY_TTL_SECONDS, default=300"`

	// nightly, after the day's due dates have passed
	SweepCron string `env:"SWEEP_CRON, default=0 15 2 * * *"`

	OCRBaseURL string `env:"OCR_BASE_URL, default=http://ocr:5000"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(context.Background(), &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
