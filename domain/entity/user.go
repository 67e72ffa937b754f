package entity

import (
	"time"
)

// Staff roles. Each role gets its own portal.
const (
	RoleAdmin    = "admin"
	RoleDirector = "director"
	RoleDriver   = "driver"
	RoleOwner    = "owner"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// ValidRoles lists every staff role
var ValidRoles = []string{RoleAdmin, RoleDirector, RoleDriver, RoleOwner}

type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

func NewUser(id, name, email, password, role, status string) *User {
	now := time.Now()
	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      role,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewUserWithDefaults(id, name, email, password, role string) *User {
	return NewUser(id, name, email, password, role, UserStatusActive)
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive && u.DeletedAt == nil
}

func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) UpdateName(name string) {
	u.Name = name
	u.UpdatedAt = time.Now()
}

func (u *User) UpdateRole(role string) {
	u.Role = role
	u.UpdatedAt = time.Now()
}

func (u *User) UpdateStatus(status string) {
	u.Status = status
	u.UpdatedAt = time.Now()
}
