package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindOf(t *testing.T) {
	err := NewPayloadError(CodeMissingRunData, "workflow_run object not found in payload")

	kind, ok := ErrorKindOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrorKindPayload, kind)
	assert.Equal(t, CodeMissingRunData, ErrorCodeOf(err))

	// Kind survives wrapping
	wrapped := fmt.Errorf("failed to handle event: %w", err)
	kind, ok = ErrorKindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrorKindPayload, kind)
	assert.Equal(t, CodeMissingRunData, ErrorCodeOf(wrapped))
}

func TestErrorKindOfPlainError(t *testing.T) {
	_, ok := ErrorKindOf(errors.New("boom"))
	assert.False(t, ok)
	assert.Empty(t, ErrorCodeOf(errors.New("boom")))
}

func TestConstraintErrorUnwraps(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := NewConstraintError("failed to create workflow run", cause)

	assert.ErrorIs(t, err, cause)
	kind, ok := ErrorKindOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrorKindConstraint, kind)
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("lookup failed: %w", ErrNotFound)))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(errors.New("something else")))
}
