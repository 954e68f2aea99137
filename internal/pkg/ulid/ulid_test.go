package ulid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunIDMonotonic(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)

	first := NewRunIDAt(at)
	second := NewRunIDAt(at)

	assert.True(t, IsValid(first))
	assert.Less(t, first, second, "IDs within the same millisecond must still sort")
}

func TestStartedAt(t *testing.T) {
	at := time.UnixMilli(1_700_000_123_456)

	got, err := StartedAt(NewRunIDAt(at))
	require.NoError(t, err)
	assert.True(t, at.Equal(got))

	_, err = StartedAt("not-a-ulid")
	assert.Error(t, err)
}
