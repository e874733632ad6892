package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/app/models/dto"
	"github.com/esa-marseille/esa-manager/internal/app/repositories"
	"github.com/esa-marseille/esa-manager/internal/pkg/auth"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextIsAdmin  = "isAdmin"
)

// AuthMiddleware validates bearer tokens and enforces admin-only routes.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   *repositories.UserProfileRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo *repositories.UserProfileRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// JWTAuth validates the Authorization header and stores the claims in the
// request context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			message := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
				message = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(code, message)))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// AdminRequired rejects requests whose token does not carry the admin flag.
// Must run after JWTAuth.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeForbidden, "Administrator access required")))
			return
		}
		c.Next()
	}
}
