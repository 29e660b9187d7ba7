// Package models holds the records stored in the library database.
package models

import (
	"fmt"
	"strings"
)

// Role is fixed when a user is created and checked on every sign-in.
type Role string

const (
	RoleMember    Role = "member"
	RoleLibrarian Role = "librarian"
)

// ParseRole accepts "member" or "librarian" in any case.
func ParseRole(s string) (Role, error) {
	switch Role(Normalize(s)) {
	case RoleMember:
		return RoleMember, nil
	case RoleLibrarian:
		return RoleLibrarian, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleLibrarian:
		return true
	}
	return false
}

// CanBorrow reports whether the role may check books out.
func (r Role) CanBorrow() bool {
	switch r {
	case RoleMember:
		return true
	case RoleLibrarian:
		return false
	}
	return false
}

// CanManageCatalog reports whether the role may add and remove copies.
func (r Role) CanManageCatalog() bool {
	switch r {
	case RoleLibrarian:
		return true
	case RoleMember:
		return false
	}
	return false
}

type User struct {
	ID   int64
	Name string
	Role Role
}

// Normalize trims surrounding whitespace and lowercases s. Names, titles
// and authors are stored this way.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
