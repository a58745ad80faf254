package model

import (
	"fmt"
	"strings"
	"time"
)

// Role describes the capability level of a registered user.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole converts a string into Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User represents a registered customer or administrator.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Principal is the authenticated actor on whose behalf an operation runs.
// It is passed explicitly into every lifecycle operation.
type Principal struct {
	UserID int64
	Role   Role
}
