package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	plain := NotFound("profile not found")
	assert.Equal(t, "profile not found", plain.Error())

	cause := errors.New("connection refused")
	wrapped := Provider("identity provider unreachable", cause)
	assert.Equal(t, "identity provider unreachable: connection refused", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Internal("resolving user failed", cause)

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, fmt.Errorf("outer: %w", err), &appErr)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeOrphanSession, CodeOf(OrphanSession("no profile")))
	assert.Equal(t, ErrCodeValidation, CodeOf(Validationf("bad %s", "input")))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))

	wrapped := fmt.Errorf("complete login: %w", Forbidden("inactive account"))
	assert.Equal(t, ErrCodeForbidden, CodeOf(wrapped))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("op: %w", Unauthorized("no session"))
	assert.True(t, IsCode(err, ErrCodeUnauthorized))
	assert.False(t, IsCode(err, ErrCodeForbidden))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeUnauthorized))
}
