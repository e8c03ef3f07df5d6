package dto

import "github.com/SscSPs/knowledge_hub/internal/core/domain"

// UserResponse is the public view of a user. It never carries the password hash.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
}

func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.UserID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
		Mobile:    user.Mobile,
	}
}
