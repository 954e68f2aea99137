package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHarnessErrorIs(t *testing.T) {
	err := ErrUnknownNetwork.WithMessagef("network %q not configured", "mainnet")

	assert.True(t, stderrors.Is(err, ErrUnknownNetwork))
	assert.False(t, stderrors.Is(err, ErrNotFound))
	assert.Equal(t, `network "mainnet" not configured`, err.Error())
}

func TestHarnessErrorWrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := ErrInvalidConfig.Wrap(cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, "Invalid configuration: dial tcp: refused", err.Error())

	// the sentinel itself is never mutated
	assert.Nil(t, ErrInvalidConfig.Err)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", fmt.Errorf("boom"), 1},
		{"harness error", ErrDependencyCycle, 2},
		{"wrapped harness error", fmt.Errorf("resolve: %w", ErrTaskNotFound), 2},
		{"not found", ErrNotFound, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestIsHarnessError(t *testing.T) {
	assert.True(t, IsHarnessError(fmt.Errorf("x: %w", ErrNotFound)))
	assert.False(t, IsHarnessError(fmt.Errorf("x")))
}
