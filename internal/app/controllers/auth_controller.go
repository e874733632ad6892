package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/app/models/dto"
	"github.com/esa-marseille/esa-manager/internal/app/services"
	"github.com/esa-marseille/esa-manager/internal/middleware"
)

// AuthController handles authentication endpoints
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login verifies credentials and returns a bearer token.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid login data").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, token, expiresIn, err := c.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: dto.UserResponse{
			ID:          profile.ID,
			Username:    profile.Username,
			VolunteerID: profile.VolunteerID,
			IsAdmin:     profile.IsAdmin,
		},
	}))
}

// CreateAccountRequest is the admin account-creation payload.
type CreateAccountRequest struct {
	Username    string `json:"username" binding:"required,min=3"`
	Password    string `json:"password" binding:"required,min=8"`
	VolunteerID *int64 `json:"volunteerId"`
	IsAdmin     bool   `json:"isAdmin"`
}

// CreateAccount creates a login account, optionally linked to a volunteer.
// Admin only.
func (c *AuthController) CreateAccount(ctx *gin.Context) {
	var req CreateAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid account data").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.authService.CreateAccount(ctx, req.Username, req.Password, req.VolunteerID, req.IsAdmin)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.UserResponse{
		ID:          profile.ID,
		Username:    profile.Username,
		VolunteerID: profile.VolunteerID,
		IsAdmin:     profile.IsAdmin,
	}))
}

// ChangePasswordRequest is the change-password payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// ChangePassword replaces the authenticated user's password.
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid password data").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	userID := ctx.GetInt64(middleware.ContextUserID)
	if err := c.authService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Password updated"})
}
