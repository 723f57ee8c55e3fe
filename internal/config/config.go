package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name    string `envconfig:"APP_NAME" default:"Contable"`
		Port    int    `envconfig:"PORT" default:"8080"`
		DataDir string `envconfig:"DATA_DIR" default:"./data"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"contable"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
		// RequestsPerMinute caps API calls per client IP.
		RequestsPerMinute int  `envconfig:"REQUESTS_PER_MINUTE" default:"300"`
		LoginPerMinute    int  `envconfig:"LOGIN_PER_MINUTE" default:"10"`
		Production        bool `envconfig:"PRODUCTION" default:"false"`
	}

	Auth struct {
		JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL      time.Duration `envconfig:"JWT_TTL" default:"12h"`
		AdminEmail    string        `envconfig:"ADMIN_EMAIL" default:"admin@contable.local"`
		AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
	}

	SRI struct {
		Delay       time.Duration `envconfig:"SRI_DELAY" default:"1.5s"`
		SuccessRate float64       `envconfig:"SRI_SUCCESS_RATE" default:"0.9"`
	}

	Payroll struct {
		// MonthsWorked is the default period length for payroll runs.
		MonthsWorked int `envconfig:"PAYROLL_MONTHS" default:"12"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Validate checks values envconfig cannot express as tags.
func (c *Config) Validate() error {
	if c.SRI.SuccessRate < 0 || c.SRI.SuccessRate > 1 {
		return fmt.Errorf("SRI_SUCCESS_RATE must be between 0 and 1, got %v", c.SRI.SuccessRate)
	}

	if c.Payroll.MonthsWorked < 1 || c.Payroll.MonthsWorked > 12 {
		return fmt.Errorf("PAYROLL_MONTHS must be between 1 and 12, got %d", c.Payroll.MonthsWorked)
	}

	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must have at least 16 characters")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
