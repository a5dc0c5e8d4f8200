package config

import (
	"os"
	"strings"
)

// Get returns the environment variable value or a fallback.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// CarrierConfig holds the static credentials and endpoint for the
// carrier serviceability API. Both credentials travel as request
// headers.
type CarrierConfig struct {
	BaseURL  string
	APIKey   string
	ClientID string
}

// CarrierFromEnv reads the carrier configuration from the environment.
func CarrierFromEnv() CarrierConfig {
	return CarrierConfig{
		BaseURL:  Get("CARRIER_BASE_URL", "https://api.carrier.example.com"),
		APIKey:   os.Getenv("CARRIER_API_KEY"),
		ClientID: os.Getenv("CARRIER_CLIENT_ID"),
	}
}

// Configured reports whether both carrier credentials are present.
// A missing credential is a warning condition, not a fatal one: the
// client degrades to heuristic fallbacks when unconfigured.
func (c CarrierConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.ClientID) != ""
}
