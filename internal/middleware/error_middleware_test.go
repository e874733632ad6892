package middleware

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
	"github.com/esa-marseille/esa-manager/internal/pkg/geocode"
)

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"student not found", apperrors.ErrStudentNotFound, 404},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperrors.ErrVolunteerNotFound), 404},
		{"invalid credentials", apperrors.ErrInvalidCredentials, 401},
		{"expired token", apperrors.ErrTokenExpired, 401},
		{"permission denied", apperrors.ErrPermissionDenied, 403},
		{"duplicate subject", apperrors.ErrSubjectAlreadyExists, 409},
		{"active pairing conflict", apperrors.ErrPairingAlreadyActive, 409},
		{"validation", apperrors.ErrValidationFailed, 400},
		{"no address", apperrors.ErrAddressMissing, 422},
		{"address unresolved", geocode.ErrNotFound, 422},
		{"geocoder timeout", geocode.ErrTimeout, 502},
		{"geocoder upstream", geocode.ErrUpstream, 502},
		{"unknown", fmt.Errorf("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleAPIError(c, tt.err)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
