package database

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsSource(t *testing.T) {
	src, err := MigrationsSource()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	r, ident, err := src.ReadUp(first)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "create_deployments", ident)

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Contains(t, string(body), "UNIQUE (network, name)")

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	down.Close()
}
