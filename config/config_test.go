package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("GO_ENV", "test")
	os.Exit(m.Run())
}

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/service_center_test")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/service_center_test", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "test", cfg.GoEnv)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/service_center_test")
	t.Setenv("PORT", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.AWSS3Bucket)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestConfigEnvironmentChecks(t *testing.T) {
	tests := []struct {
		goEnv         string
		isProduction  bool
		isTest        bool
		isDevelopment bool
	}{
		{"production", true, false, false},
		{"test", false, true, false},
		{"development", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.goEnv, func(t *testing.T) {
			cfg := &Config{GoEnv: tt.goEnv}
			assert.Equal(t, tt.isProduction, cfg.IsProduction())
			assert.Equal(t, tt.isTest, cfg.IsTest())
			assert.Equal(t, tt.isDevelopment, cfg.IsDevelopment())
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost:5432/db"}
	assert.NoError(t, cfg.Validate())

	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())
}
