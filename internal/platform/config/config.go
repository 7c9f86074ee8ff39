package config

import (
	"os"
	"strconv"
	"time"
)

// Licenses captures configuration for the licensing service.
type Licenses struct {
	Addr                  string
	MongoURI              string
	MongoDatabase         string
	ProviderStatesEnabled bool
	TracingEnabled        bool
	ShutdownTimeout       time.Duration
}

// LicensesFromEnv builds the licensing service config from environment
// variables so main stays lean.
func LicensesFromEnv() Licenses {
	return Licenses{
		Addr:                  envString("LICENSES_ADDR", ":3001"),
		MongoURI:              envString("MONGODB_URI", "mongodb://localhost:27017/licencias"),
		MongoDatabase:         envString("MONGODB_DATABASE", "licencias"),
		ProviderStatesEnabled: envBool("PROVIDER_STATES_ENABLED", false),
		TracingEnabled:        envBool("TRACING_ENABLED", false),
		ShutdownTimeout:       envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Adapter captures configuration shared by the two consumer services that
// proxy the licensing service.
type Adapter struct {
	Addr               string
	LicensesServiceURL string
	UpstreamTimeout    time.Duration
	RateLimitPerSecond float64
	RateLimitBurst     int
	ShutdownTimeout    time.Duration
}

// PortalFromEnv builds the patient portal config.
func PortalFromEnv() Adapter {
	return adapterFromEnv("PORTAL_ADDR", ":3002")
}

// InsurerFromEnv builds the insurer validator config.
func InsurerFromEnv() Adapter {
	return adapterFromEnv("INSURER_ADDR", ":3003")
}

func adapterFromEnv(addrVar, addrDefault string) Adapter {
	return Adapter{
		Addr:               envString(addrVar, addrDefault),
		LicensesServiceURL: envString("LICENSES_SERVICE_URL", "http://localhost:3001"),
		UpstreamTimeout:    envDuration("UPSTREAM_TIMEOUT", 5*time.Second),
		RateLimitPerSecond: envFloat("RATE_LIMIT_PER_SECOND", 50),
		RateLimitBurst:     envInt("RATE_LIMIT_BURST", 100),
		ShutdownTimeout:    envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
