package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/errors"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *errors.AppError
		code   string
		status int
		msg    string
	}{
		{"not found", errors.NewNotFoundError("flashcard", "abc"), errors.ErrCodeNotFound, 404, "flashcard not found: abc"},
		{"validation", errors.NewValidationError("title", "is required"), errors.ErrCodeValidation, 400, "validation failed for title: is required"},
		{"bad request", errors.NewBadRequestError("invalid body"), errors.ErrCodeBadRequest, 400, "invalid body"},
		{"internal", errors.NewInternalError(fmt.Errorf("boom")), errors.ErrCodeInternal, 500, "internal server error"},
		{"persistence", errors.NewPersistenceError("save study session", fmt.Errorf("disk full")), errors.ErrCodePersistence, 500, "failed to save study session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.msg, tt.err.Message)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := errors.NewPersistenceError("save study session", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", errors.NewNotFoundError("flashcard", "f1"))

	appErr, ok := errors.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
	assert.True(t, errors.HasCode(wrapped, errors.ErrCodeNotFound))
	assert.False(t, errors.HasCode(wrapped, errors.ErrCodeValidation))

	_, ok = errors.As(fmt.Errorf("plain"))
	assert.False(t, ok)
}
