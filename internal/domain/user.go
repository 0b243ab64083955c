package domain

import "strings"

type UserID string

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

type User struct {
	ID       UserID   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Role     Role     `json:"role"`
	TenantID TenantID `json:"tenantId,omitempty"`
}

func (u User) Identified() bool {
	return strings.TrimSpace(string(u.ID)) != ""
}
