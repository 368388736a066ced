package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{InvalidState("wrong state"), http.StatusBadRequest},
		{Authentication("no token"), http.StatusUnauthorized},
		{Authorization("forbidden"), http.StatusForbidden},
		{NotFound("appointment"), http.StatusNotFound},
		{Conflict("taken"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode())
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "doctor not found", NotFound("doctor").Error())
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)

	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestIsKind(t *testing.T) {
	err := Conflict("slot is not available")
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))

	wrapped := fmt.Errorf("while booking: %w", err)
	assert.True(t, IsKind(wrapped, KindConflict))

	assert.False(t, IsKind(errors.New("plain"), KindConflict))
	assert.False(t, IsKind(nil, KindConflict))
}

func TestFrom(t *testing.T) {
	orig := NotFound("patient")
	assert.Same(t, orig, From(orig))

	plain := errors.New("boom")
	converted := From(plain)
	assert.Equal(t, KindInternal, converted.Kind)
	assert.ErrorIs(t, converted, plain)
}
