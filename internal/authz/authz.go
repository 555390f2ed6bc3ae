// Package authz decides whether a user may exercise a capability.
//
// A user's capabilities are the privileges attached to the user row. Admins
// hold every capability regardless of their explicit privileges.
package authz

import (
	"errors"

	"go-erp-admin/internal/model"
)

// ErrPermissionDenied is returned by RequireCapability. Handlers answer it
// exactly like a missing record so callers cannot learn whether it exists.
var ErrPermissionDenied = errors.New("permission denied")

// ParseCapability maps a capability name onto the closed enumeration.
func ParseCapability(name string) (model.Capability, bool) {
	for _, c := range model.AllCapabilities {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Capabilities returns every known capability mapped to the user's explicit flag.
func Capabilities(user *model.User) map[model.Capability]bool {
	caps := make(map[model.Capability]bool, len(model.AllCapabilities))
	for _, c := range model.AllCapabilities {
		caps[c] = false
	}
	if user == nil {
		return caps
	}
	for _, p := range user.Privileges {
		if c, ok := ParseCapability(p.Code); ok {
			caps[c] = true
		}
	}
	return caps
}

// HasCapability reports whether user may exercise c.
func HasCapability(user *model.User, c model.Capability) bool {
	if user == nil {
		return false
	}
	if user.IsAdmin {
		return true
	}
	return Capabilities(user)[c]
}

// RequireCapability is the guard placed in front of every protected operation.
func RequireCapability(user *model.User, c model.Capability) error {
	if !HasCapability(user, c) {
		return ErrPermissionDenied
	}
	return nil
}
