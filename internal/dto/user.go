package dto

import (
	"github.com/SscSPs/knowledge_hub/internal/core/domain"
)

// RegisterUserRequest is the body of POST /user/registration.
type RegisterUserRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Mobile    string `json:"mobile" binding:"required,mobile"`
	Password  string `json:"password" binding:"required"`
}

// LoginRequest is the body of POST /user/login. Exactly one of Username,
// Email or Mobile must be set.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Mobile   string `json:"mobile" binding:"omitempty,mobile"`
	Password string `json:"password" binding:"required"`
}

// Identifier validates the mutually exclusive identifier fields.
func (r LoginRequest) Identifier() (domain.LoginIdentifier, error) {
	return domain.NewLoginIdentifier(r.Username, r.Email, r.Mobile)
}

// RenewTokensRequest carries the refresh token, either as the refresh_token
// query parameter or as a JSON body.
type RenewTokensRequest struct {
	RefreshToken string `form:"refresh_token" json:"refreshToken"`
}
