package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTypes_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		typ    ErrorType
		status int
	}{
		{"validation", ValidationError("bad width", nil), TypeValidation, http.StatusBadRequest},
		{"not found", NotFoundError("no page"), TypeNotFound, http.StatusNotFound},
		{"unavailable", UnavailableError("too many connections"), TypeUnavailable, http.StatusServiceUnavailable},
		{"internal", InternalError("write failed", errors.New("disk full")), TypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.NotNil(t, tt.err.Context)
			assert.Contains(t, tt.err.Error(), string(tt.typ))
		})
	}
}

func TestInternalError_WrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := InternalError("failed to patch style sheet", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "failed to patch style sheet")
	assert.Contains(t, err.Error(), "disk full")
}

func TestWithContext(t *testing.T) {
	err := ValidationError("bad value", nil).WithContext("field", "image_width")
	assert.Equal(t, "image_width", err.Context["field"])

	bare := &Error{Type: TypeInternal}
	bare.WithContext("k", 1)
	assert.Equal(t, 1, bare.Context["k"])
}

func TestToResponse(t *testing.T) {
	resp := NotFoundError("missing").ToResponse()
	assert.Equal(t, "missing", resp.Error)
	assert.Equal(t, TypeNotFound, resp.Type)
}

func TestAsStructuredError(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))

	original := ValidationError("bad", nil)
	wrapped := fmt.Errorf("handler: %w", original)
	require.Same(t, original, AsStructuredError(wrapped))

	plain := errors.New("boom")
	converted := AsStructuredError(plain)
	assert.Equal(t, TypeInternal, converted.Type)
	assert.True(t, errors.Is(converted, plain))
}
