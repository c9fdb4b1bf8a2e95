package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Status(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeValidation, http.StatusUnprocessableEntity},
		{ErrCodeOverpayment, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientBalance, http.StatusUnprocessableEntity},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeNetwork, http.StatusBadGateway},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "x").Status())
		})
	}
}

func TestGetAppError_Wrapped(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("outer: %w", Internal("failed", cause))

	appErr := GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.ErrorIs(t, err, cause)
	}
	assert.True(t, IsAppError(err))
	assert.Nil(t, GetAppError(cause))
}

func TestOverpayment_UsesCauseMessage(t *testing.T) {
	err := Overpayment(errors.New("payment of 10.00 exceeds the remaining 5.00"))
	assert.Equal(t, ErrCodeOverpayment, err.Code)
	assert.Equal(t, "payment of 10.00 exceeds the remaining 5.00", err.Message)
}
