package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("Sale").Code)
	assert.Equal(t, http.StatusConflict, NewInvalidStateError("x").Code)
	assert.Equal(t, http.StatusBadRequest, NewInvalidAmountError("x").Code)
	assert.Equal(t, http.StatusBadRequest, NewInvalidQuantityError("x").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, NewEmptySaleError().Code)
	assert.Equal(t, http.StatusUnprocessableEntity, NewMissingProductError("x").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, NewCreditLimitExceededError("x").Code)
}

func TestIsKind(t *testing.T) {
	err := NewNotFoundError("Sale")
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindInvalidState))

	// Works through wrapping.
	wrapped := fmt.Errorf("finalize: %w", err)
	assert.True(t, IsKind(wrapped, KindNotFound))

	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}

func TestGetAppError_FallsBackToInternal(t *testing.T) {
	appErr := GetAppError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, KindInternal, appErr.Kind)

	known := GetAppError(NewEmptySaleError())
	assert.Equal(t, KindEmptySale, known.Kind)
}
