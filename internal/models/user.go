package models

import (
	"strings"
	"time"
)

// User represents an account. Username holds the account email and is unique.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProviderID   string    `json:"provider_id,omitempty" gorm:"type:varchar(255)"`
	Username     string    `json:"username" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(100)" validate:"max=100"`
	LastName     string    `json:"last_name" gorm:"type:varchar(100)" validate:"max=100"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"` // set only for locally registered users
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName joins the name fields, falling back to the username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
