package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("load cohort: %w", ErrDatasetUnavailable)

	got := FromError(wrapped)

	assert.Equal(t, ErrDatasetUnavailable.Code, got.Code)
	assert.Equal(t, http.StatusServiceUnavailable, got.Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("boom"))

	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.EqualError(t, got, "internal server error: boom")
	assert.Nil(t, FromError(nil))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrValidation, "target_gpa must be between 0 and 4")

	assert.Equal(t, "target_gpa must be between 0 and 4", clone.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
	assert.Equal(t, ErrValidation, Clone(ErrValidation, ""))
	assert.Nil(t, Clone(nil, "x"))
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("redis down")
	err := Wrap(cause, ErrInternal.Code, ErrInternal.Status, "failed to read cache")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to read cache: redis down", err.Error())
}
