package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string  `gorm:"size:100;not null" json:"name"`
	Email        string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"size:255" json:"-"`
	Phone        string  `gorm:"size:20" json:"phone"`
	Roles        RoleSet `gorm:"not null" json:"-"`
	Locale       string  `gorm:"size:5" json:"locale"`
	PhotoKey     string  `gorm:"size:255" json:"photo_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsGuest reports a client created by an unauthenticated booking.
func (u *User) IsGuest() bool {
	return u.PasswordHash == ""
}
