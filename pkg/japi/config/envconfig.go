package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type EnvConfig struct {
	Port        string        `envconfig:"JARVICE_MOCK_PORT" default:"8080"`
	Username    string        `envconfig:"JARVICE_MOCK_USERNAME" required:"true"`
	APIKey      string        `envconfig:"JARVICE_MOCK_APIKEY" required:"true"`
	QueueDelay  time.Duration `envconfig:"JARVICE_MOCK_QUEUE_DELAY" default:"5s"`
	RunDuration time.Duration `envconfig:"JARVICE_MOCK_RUN_DURATION" default:"30s"`
	Environment string        `envconfig:"ENVIRONMENT" default:"development"`
}

// IsDev returns true if the application is running in development environment
func IsDev() bool {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	return env == "development" || env == "dev" || env == ""
}

func ValidateEnv() (*EnvConfig, error) {
	if IsDev() {
		if err := godotenv.Load(); err != nil {
			log.Println("ℹ No .env file found")
		} else {
			log.Println("✓ Loaded .env file")
		}
	}

	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *EnvConfig) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, "  ❌ JARVICE_MOCK_PORT must be a port number")
	}

	if c.QueueDelay < 0 {
		errors = append(errors, "  ❌ JARVICE_MOCK_QUEUE_DELAY must not be negative")
	}

	if c.RunDuration <= 0 {
		errors = append(errors, "  ❌ JARVICE_MOCK_RUN_DURATION must be positive")
	}

	if strings.TrimSpace(c.Username) == "" {
		errors = append(errors, "  ❌ JARVICE_MOCK_USERNAME must not be blank")
	}

	if c.APIKey == "" {
		errors = append(errors, "  ❌ JARVICE_MOCK_APIKEY must not be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("environment validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return nil
}

func MaskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func (c *EnvConfig) Print(fmtr func(string, ...interface{})) {
	fmtr("📋 Configuration:\n")
	fmtr("  Environment: %s\n", c.Environment)
	fmtr("  Port: %s\n", c.Port)
	fmtr("  Username: %s\n", c.Username)
	fmtr("  API Key: %s\n", MaskSecret(c.APIKey))
	fmtr("  Queue delay: %s\n", c.QueueDelay)
	fmtr("  Run duration: %s\n", c.RunDuration)
}
