package dto

// RegisterRequest describes sign-up payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest describes email/password payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries issued session token.
type TokenResponse struct {
	Token string `json:"token"`
}
