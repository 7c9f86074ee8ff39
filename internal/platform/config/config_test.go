package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLicensesFromEnvDefaults(t *testing.T) {
	cfg := LicensesFromEnv()

	assert.Equal(t, ":3001", cfg.Addr)
	assert.Equal(t, "mongodb://localhost:27017/licencias", cfg.MongoURI)
	assert.Equal(t, "licencias", cfg.MongoDatabase)
	assert.False(t, cfg.ProviderStatesEnabled)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLicensesFromEnvOverrides(t *testing.T) {
	t.Setenv("LICENSES_ADDR", ":9001")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/licenses")
	t.Setenv("PROVIDER_STATES_ENABLED", "true")

	cfg := LicensesFromEnv()

	assert.Equal(t, ":9001", cfg.Addr)
	assert.Equal(t, "mongodb://db:27017/licenses", cfg.MongoURI)
	assert.True(t, cfg.ProviderStatesEnabled)
}

func TestAdapterFromEnv(t *testing.T) {
	t.Setenv("LICENSES_SERVICE_URL", "http://licencias:3001")
	t.Setenv("UPSTREAM_TIMEOUT", "2s")

	portal := PortalFromEnv()
	insurer := InsurerFromEnv()

	assert.Equal(t, ":3002", portal.Addr)
	assert.Equal(t, ":3003", insurer.Addr)
	assert.Equal(t, "http://licencias:3001", portal.LicensesServiceURL)
	assert.Equal(t, 2*time.Second, portal.UpstreamTimeout)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	t.Setenv("PROVIDER_STATES_ENABLED", "sí")

	assert.Equal(t, 5*time.Second, PortalFromEnv().UpstreamTimeout)
	assert.False(t, LicensesFromEnv().ProviderStatesEnabled)
}
