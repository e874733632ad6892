package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	VolunteerID *int64 `json:"volunteerId,omitempty"`
	IsAdmin     bool   `json:"isAdmin"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
