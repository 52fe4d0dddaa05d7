package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	// Defaults prefilled in the connection form
	OdooURL      string
	OdooDB       string
	OdooLogin    string
	OdooPassword string

	PartnerName string
	HTTPTimeout time.Duration

	RateLimit float64
	RateBurst int

	// TLS serves HTTPS with the certificate pair in CertDir, generating a
	// self-signed one when none exists.
	TLS       bool
	CertDir   string
	CertHosts []string

	// TrustProxy takes the client address from X-Forwarded-For when the
	// request comes through a private-network proxy. Off by default, the
	// socket peer address is used.
	TrustProxy bool
}

// Load reads the configuration. A .env file in the working directory, when
// present, is loaded first; real environment variables take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("ODOODESK_PORT", "8080"),
		LogLevel:     getEnv("ODOODESK_LOG_LEVEL", "info"),
		LogFormat:    getEnv("ODOODESK_LOG_FORMAT", "text"),
		OdooURL:      getEnv("ODOODESK_ODOO_URL", "http://localhost:8069"),
		OdooDB:       getEnv("ODOODESK_ODOO_DB", "odoo_lab"),
		OdooLogin:    getEnv("ODOODESK_ODOO_LOGIN", "admin"),
		OdooPassword: getEnv("ODOODESK_ODOO_PASSWORD", "admin"),
		PartnerName:  getEnv("ODOODESK_PARTNER_NAME", "Administrator"),
		CertDir:      getEnv("ODOODESK_CERT_DIR", "./certs"),
	}

	var err error
	if cfg.HTTPTimeout, err = time.ParseDuration(getEnv("ODOODESK_HTTP_TIMEOUT", "30s")); err != nil || cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("invalid ODOODESK_HTTP_TIMEOUT: %q", os.Getenv("ODOODESK_HTTP_TIMEOUT"))
	}
	if cfg.RateLimit, err = strconv.ParseFloat(getEnv("ODOODESK_RATE_LIMIT", "5"), 64); err != nil || cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("invalid ODOODESK_RATE_LIMIT: %q", os.Getenv("ODOODESK_RATE_LIMIT"))
	}
	if cfg.RateBurst, err = strconv.Atoi(getEnv("ODOODESK_RATE_BURST", "10")); err != nil || cfg.RateBurst <= 0 {
		return nil, fmt.Errorf("invalid ODOODESK_RATE_BURST: %q", os.Getenv("ODOODESK_RATE_BURST"))
	}
	if cfg.TLS, err = strconv.ParseBool(getEnv("ODOODESK_TLS", "false")); err != nil {
		return nil, fmt.Errorf("invalid ODOODESK_TLS: %q", os.Getenv("ODOODESK_TLS"))
	}
	if cfg.TrustProxy, err = strconv.ParseBool(getEnv("ODOODESK_TRUST_PROXY", "false")); err != nil {
		return nil, fmt.Errorf("invalid ODOODESK_TRUST_PROXY: %q", os.Getenv("ODOODESK_TRUST_PROXY"))
	}
	for _, h := range strings.Split(os.Getenv("ODOODESK_CERT_HOSTS"), ",") {
		if h = strings.TrimSpace(h); h != "" {
			cfg.CertHosts = append(cfg.CertHosts, h)
		}
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid ODOODESK_PORT: %q", cfg.Port)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid ODOODESK_LOG_FORMAT: %q (want text or json)", cfg.LogFormat)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
