package server

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fylo-cloud/fylo/internal/application/order/testutil"
	"github.com/fylo-cloud/fylo/internal/infrastructure/config"
	sharedConfig "github.com/fylo-cloud/fylo/internal/shared/config"
)

func TestMapEnvToGinMode(t *testing.T) {
	tests := map[string]string{
		"production":  gin.ReleaseMode,
		"prod":        gin.ReleaseMode,
		"test":        gin.TestMode,
		"development": gin.DebugMode,
		"dev":         gin.DebugMode,
		"":            gin.DebugMode,
	}
	for input, want := range tests {
		assert.Equal(t, want, mapEnvToGinMode(input), input)
	}
}

func configWith(mode, secret string) *config.Config {
	return &config.Config{
		Server: sharedConfig.ServerConfig{Mode: mode},
		Auth:   sharedConfig.AuthConfig{JWT: sharedConfig.JWTConfig{Secret: secret}},
	}
}

func TestCheckJWTSecret(t *testing.T) {
	t.Run("release refuses the placeholder", func(t *testing.T) {
		log := testutil.NewMockLogger()
		err := checkJWTSecret(configWith(gin.ReleaseMode, config.DefaultJWTSecret), log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "FYLO_AUTH_JWT_SECRET")
	})

	t.Run("debug warns about the placeholder", func(t *testing.T) {
		log := testutil.NewMockLogger()
		require.NoError(t, checkJWTSecret(configWith(gin.DebugMode, config.DefaultJWTSecret), log))
		assert.True(t, log.HasMessage("WARN", "admin tokens are signed with the default JWT secret"))
	})

	t.Run("custom secret is accepted silently", func(t *testing.T) {
		log := testutil.NewMockLogger()
		require.NoError(t, checkJWTSecret(configWith(gin.ReleaseMode, "a-long-random-secret"), log))
		assert.False(t, log.HasMessage("WARN", "admin tokens are signed with the default JWT secret"))
	})
}
