package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Wrapping(t *testing.T) {
	err := fmt.Errorf("%w: sellers is missing", ErrInvalidInput)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrInvalidStrategies)
	assert.Equal(t, "Invalid input provided: sellers is missing", err.Error())

	var de *DomainError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "INVALID_INPUT", de.Code)
}

func TestNewDomainError(t *testing.T) {
	err := NewDomainError("CUSTOM", "custom failure")
	assert.Equal(t, "CUSTOM", err.Code)
	assert.Equal(t, "custom failure", err.Error())
}
