package model

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// User records live inside SystemSettings.Users, not a normalized table.
// Password holds a bcrypt hash; PIN is the short numeric terminal unlock code.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Role      Role       `json:"role"`
	PIN       string     `json:"pin,omitempty"`
	Password  string     `json:"password,omitempty"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}
