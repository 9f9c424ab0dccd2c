package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conformitia/conformitia-api/pkg/config"
)

// Sans variables d'environnement, les valeurs par défaut s'appliquent.
func TestLoad_ValeursParDefaut(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "conformitia_sid", cfg.Session.CookieName)
}

// Les variables d'environnement priment sur les défauts.
func TestLoad_VariablesDEnvironnement(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}
