// Package permissions decides whether a user's roles grant actions on a
// resource. Evaluation is a pure function of its inputs: it never fetches,
// mutates, or fails.
package permissions

import (
	"github.com/angelmondragon/bookstore-backend/pkg/enums"
	"github.com/angelmondragon/bookstore-backend/pkg/types"
)

// Role is a hydrated role as seen by the evaluator.
type Role struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Active     bool                `json:"active"`
	Permission types.PermissionMap `json:"permission"`
}

// User carries the roles assigned to an account.
type User struct {
	ID    string `json:"id"`
	Roles []Role `json:"roles"`
}

// Evaluate reports whether any single role grants the requested actions on
// resource. In any mode one granted action is enough for a role; in all mode a
// role must grant every action by itself. Grants are never combined across
// roles. The role's Active flag is not consulted.
func Evaluate(user *User, resource enums.Resource, actions []enums.Action, mode enums.PermissionMode) bool {
	if user == nil || len(user.Roles) == 0 {
		return false
	}
	for _, role := range user.Roles {
		if roleGrants(role, resource, actions, mode) {
			return true
		}
	}
	return false
}

func roleGrants(role Role, resource enums.Resource, actions []enums.Action, mode enums.PermissionMode) bool {
	rules, ok := role.Permission[resource]
	if !ok || rules == nil {
		return false
	}
	if mode == enums.PermissionModeAll {
		for _, action := range actions {
			if !rules[action] {
				return false
			}
		}
		return true
	}
	for _, action := range actions {
		if rules[action] {
			return true
		}
	}
	return false
}

// Can reports whether one role grants action on resource.
func Can(user *User, resource enums.Resource, action enums.Action) bool {
	return Evaluate(user, resource, []enums.Action{action}, enums.PermissionModeAll)
}

// CanAny reports whether some role grants at least one of actions.
func CanAny(user *User, resource enums.Resource, actions ...enums.Action) bool {
	return Evaluate(user, resource, actions, enums.PermissionModeAny)
}

// CanAll reports whether some single role grants every one of actions.
func CanAll(user *User, resource enums.Resource, actions ...enums.Action) bool {
	return Evaluate(user, resource, actions, enums.PermissionModeAll)
}
