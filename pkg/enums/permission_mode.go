package enums

import "fmt"

// PermissionMode selects how requested actions combine within a single role.
type PermissionMode string

const (
	PermissionModeAny PermissionMode = "any"
	PermissionModeAll PermissionMode = "all"
)

// IsValid reports whether the value is a known PermissionMode.
func (m PermissionMode) IsValid() bool {
	return m == PermissionModeAny || m == PermissionModeAll
}

// ParsePermissionMode converts raw input into a PermissionMode; empty means any.
func ParsePermissionMode(value string) (PermissionMode, error) {
	switch PermissionMode(value) {
	case "":
		return PermissionModeAny, nil
	case PermissionModeAny, PermissionModeAll:
		return PermissionMode(value), nil
	}
	return "", fmt.Errorf("invalid permission mode %q", value)
}
