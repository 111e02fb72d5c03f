package models

import "strings"

// Role names recognized by the authorization policy.
const (
	RoleAdmin     = "Admin"
	RoleManager   = "Manager"
	RoleDeveloper = "Developer"
)

// User is a login account for an employee. Roles are stored as a
// comma-separated list; a single user may hold several roles at once.
type User struct {
	EID      uint   `json:"e_id" gorm:"column:e_id;primaryKey"`
	Password string `json:"-" gorm:"not null"`
	Roles    string `json:"-" gorm:"not null"`
	Status   string `json:"status" gorm:"default:'Active'"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// RoleList splits the stored roles into a slice, dropping empty entries.
func (u User) RoleList() []string {
	parts := strings.Split(u.Roles, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if r := strings.TrimSpace(p); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// Identity builds the resolved identity for this user.
func (u User) Identity() Identity {
	return Identity{
		EID:    u.EID,
		Roles:  u.RoleList(),
		Status: u.Status,
	}
}

// Identity is a resolved caller: a stable employee id plus the set of
// roles the account holds.
type Identity struct {
	EID    uint     `json:"e_id"`
	Roles  []string `json:"roles"`
	Status string   `json:"status"`
}

// HasRole reports whether the identity holds the given role.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}
