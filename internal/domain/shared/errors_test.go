package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("TEST", "something failed")
	assert.Equal(t, "something failed", err.Error())
	assert.Equal(t, "TEST", err.Code)
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewDomainError("NOT_FOUND", "binding missing"))

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrInvalidState))
}
