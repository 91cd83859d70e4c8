package token

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fylo-cloud/fylo/internal/infrastructure/auth"
)

func TestMint(t *testing.T) {
	svc := auth.NewJWTService("secret", 60)

	var out bytes.Buffer
	require.NoError(t, mint(&out, svc, "ops", 10*time.Minute))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "# expires "))

	claims, err := svc.Verify(lines[0])
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestMint_EmptySubject(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, mint(&out, auth.NewJWTService("secret", 60), "", 0))
	assert.Empty(t, out.String())
}
