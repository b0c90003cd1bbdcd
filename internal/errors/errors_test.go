package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", Validation(FieldError{Field: "email", Message: "bad"}), http.StatusBadRequest, "Validation error"},
		{"not found", ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"conflict", ErrEmailTaken, http.StatusBadRequest, "Email already registered"},
		{"self delete", ErrSelfDelete, http.StatusBadRequest, "Cannot delete your own account"},
		{"unauthorized", ErrInvalidToken, http.StatusUnauthorized, "Not authorized, token failed"},
		{"forbidden", ErrInsufficientRole, http.StatusForbidden, "Not authorized to access this route"},
		{"internal", Internal(stderrors.New("dial tcp: refused")), http.StatusInternalServerError, "Server error"},
		{"foreign", stderrors.New("boom"), http.StatusInternalServerError, "Server error"},
		{"wrapped", fmt.Errorf("update user: %w", ErrUserNotFound), http.StatusNotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantMsg, httpErr.Message)

			resp := httpErr.ToErrorResponse()
			assert.False(t, resp.Success)
		})
	}
}

func TestMapErrorToHTTP_KeepsFieldErrors(t *testing.T) {
	err := Validation(
		FieldError{Field: "username", Message: "username must be between 3 and 30 characters"},
		FieldError{Field: "email", Message: "email must be a valid email address"},
	)

	resp := MapErrorToHTTP(err).ToErrorResponse()
	assert.Len(t, resp.Errors, 2)
	assert.Equal(t, "username", resp.Errors[0].Field)
}

func TestInternalDoesNotLeakCause(t *testing.T) {
	err := Internal(stderrors.New("Error 1045: Access denied for user 'root'"))
	resp := MapErrorToHTTP(err).ToErrorResponse()
	assert.Equal(t, "Server error", resp.Message)
	assert.NotContains(t, resp.Message, "Access denied")
	assert.Equal(t, KindInternal, KindOf(err))
}
