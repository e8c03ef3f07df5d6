package domain

import "time"

// User represents a registered user of the application in the domain.
type User struct {
	UserID       string    `json:"userID"` // Primary Key (UUID)
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) GetUserID() string {
	return u.UserID
}

func (u *User) GetUsername() string {
	return u.Username
}

// GetName returns the display name of the user.
func (u *User) GetName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
