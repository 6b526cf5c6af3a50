package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"adopta-api/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("petition create: %w", apperr.Conflict("petition already exists"))

	assert.True(t, errors.Is(err, apperr.ErrConflict))
	assert.False(t, errors.Is(err, apperr.ErrValidation))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "petition already exists", apperr.MessageOf(err))
}

func TestError_IsWithMessageRequiresSameMessage(t *testing.T) {
	sentinel := apperr.Validation("cannot cancel a processed petition")

	assert.True(t, errors.Is(fmt.Errorf("x: %w", sentinel), sentinel))
	assert.False(t, errors.Is(apperr.Validation("other"), sentinel))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, "internal error", apperr.MessageOf(err))
}

func TestUpload_KeepsCause(t *testing.T) {
	cause := errors.New("s3 down")
	err := apperr.Upload("image upload failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, apperr.ErrUpload)
	assert.Equal(t, "image upload failed: s3 down", err.Error())
}
