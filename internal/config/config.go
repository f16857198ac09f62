package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	PageAccessToken string `envconfig:"PAGE_ACCESS_TOKEN"`
	VerifyToken     string `envconfig:"VERIFY_TOKEN"`
	AppSecret       string `envconfig:"APP_SECRET"`

	GraphAPIURL  string `envconfig:"GRAPH_API_URL" default:"https://graph.facebook.com/v2.6"`
	RegistrarURL string `envconfig:"REGISTRAR_URL" default:"https://us-central1-covid19puertorico-1a743.cloudfunctions.net/addPSID"`

	Port     string `envconfig:"PORT" default:"1337"`
	DataDir  string `envconfig:"DATA_DIR"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	OutboundTimeout time.Duration `envconfig:"OUTBOUND_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// GeneratedVerifyToken is set when VERIFY_TOKEN was empty and a random one was issued.
	GeneratedVerifyToken bool `ignored:"true"`
}

// Load reads the process environment once. The returned value is not modified afterwards.
func Load() (*Config, error) {
	// .env is optional: env vars may already be set in production
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env: %w", err)
	}

	if cfg.VerifyToken == "" {
		token, err := randomHex(16)
		if err != nil {
			return nil, fmt.Errorf("generating verify token: %w", err)
		}
		cfg.VerifyToken = token
		cfg.GeneratedVerifyToken = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var result *multierror.Error
	for _, req := range []struct {
		name, val string
	}{
		{"PAGE_ACCESS_TOKEN", c.PageAccessToken},
		{"GRAPH_API_URL", c.GraphAPIURL},
		{"REGISTRAR_URL", c.RegistrarURL},
		{"PORT", c.Port},
	} {
		if req.val == "" {
			result = multierror.Append(result, fmt.Errorf("required env var %s is not set", req.name))
		}
	}
	if c.OutboundTimeout <= 0 {
		result = multierror.Append(result, errors.New("OUTBOUND_TIMEOUT must be positive"))
	}
	return result.ErrorOrNil()
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
