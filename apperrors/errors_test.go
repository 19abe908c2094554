package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, BadRequest("x").StatusCode())
	assert.Equal(t, fiber.StatusForbidden, Forbidden("x").StatusCode())
	assert.Equal(t, fiber.StatusNotFound, NotFound("booking").StatusCode())
	assert.Equal(t, fiber.StatusConflict, Conflict("x").StatusCode())
	assert.Equal(t, fiber.StatusInternalServerError, Internal("x", nil).StatusCode())
}

func TestFromPassesThroughAppErrors(t *testing.T) {
	orig := Conflict("already booked")
	assert.Same(t, orig, From(orig))

	wrapped := fmt.Errorf("handler: %w", orig)
	assert.Same(t, orig, From(wrapped))
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	plain := errors.New("boom")
	appErr := From(plain)
	assert.Equal(t, KindInternal, appErr.Kind)
	assert.ErrorIs(t, appErr, plain)
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("op failed: %w", NotFound("car"))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(errors.New("boom"), KindNotFound))
	assert.False(t, IsKind(nil, KindNotFound))
}
