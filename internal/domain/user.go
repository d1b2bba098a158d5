// Package domain defines the core entities of the Inkwell writers' platform.
package domain

import "time"

// User represents a registered writer account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string    `json:"display_name"`
	AvatarPath   string    `json:"avatar_path,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the public projection of a user embedded in likes, comments,
// follow lists, and notifications.
type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarPath  string `json:"avatar_path,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// AsProfile returns the public projection of the user.
func (u *User) AsProfile() Profile {
	return Profile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarPath:  u.AvatarPath,
		Bio:         u.Bio,
	}
}
