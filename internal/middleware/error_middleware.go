package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/app/models/dto"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
	"github.com/esa-marseille/esa-manager/internal/pkg/geocode"
)

// HandleAPIError maps service errors onto HTTP status codes and the shared
// error response envelope.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrStudentNotFound,
		apperrors.ErrVolunteerNotFound,
		apperrors.ErrSubjectNotFound,
		apperrors.ErrPairingNotFound,
		apperrors.ErrUserNotFound):
		c.JSON(404, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")))

	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")))

	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenNotFound):
		c.JSON(401, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")))

	case apperrors.Is(err, apperrors.ErrResourceAlreadyExists,
		apperrors.ErrSubjectAlreadyExists,
		apperrors.ErrUsernameExists):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())))

	case errors.Is(err, apperrors.ErrPairingAlreadyActive):
		c.JSON(409, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Student already has an active pairing")))

	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))

	case errors.Is(err, apperrors.ErrAddressMissing):
		c.JSON(422, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeAddressNotFound, "Record has no address to geocode")))

	case errors.Is(err, geocode.ErrNotFound):
		c.JSON(422, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeAddressNotFound, "Address could not be resolved")))

	case errors.Is(err, geocode.ErrTimeout), errors.Is(err, geocode.ErrUpstream):
		c.JSON(502, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeGeocoderFailed, "Geocoding service unavailable")))

	default:
		c.JSON(500, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
