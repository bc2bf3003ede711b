package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid value", "kiwi", false},
		{"value with inner spaces", "kiwi backend", false},
		{"empty string", "", true},
		{"spaces only", "   ", true},
		{"tabs and newlines", "\t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("kiwi"))
	assert.Error(t, NoWhitespace.Validate(" kiwi"))
	assert.Error(t, NoWhitespace.Validate("kiwi "))
}

func TestWrapValidationError(t *testing.T) {
	t.Run("NilReturnsNil", func(t *testing.T) {
		assert.Nil(t, WrapValidationError(nil))
	})

	t.Run("WrapsAsInvalidInput", func(t *testing.T) {
		err := WrapValidationError(NotBlank.Validate(""))
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}
