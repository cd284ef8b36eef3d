package permissions

import (
	"testing"

	"github.com/angelmondragon/bookstore-backend/pkg/enums"
	"github.com/angelmondragon/bookstore-backend/pkg/types"
)

func roleWith(name string, resource enums.Resource, actions ...enums.Action) Role {
	rules := types.RuleSet{}
	for _, action := range actions {
		rules[action] = true
	}
	return Role{ID: name, Name: name, Active: true, Permission: types.PermissionMap{resource: rules}}
}

func TestCanAllIsDecidedPerRole(t *testing.T) {
	user := &User{ID: "u1", Roles: []Role{
		roleWith("creator", enums.ResourceBook, enums.ActionCreate),
		roleWith("editor", enums.ResourceBook, enums.ActionUpdate),
	}}

	if CanAll(user, enums.ResourceBook, enums.ActionCreate, enums.ActionUpdate) {
		t.Fatal("canAll must not union grants across roles")
	}
	if !CanAny(user, enums.ResourceBook, enums.ActionCreate, enums.ActionUpdate) {
		t.Fatal("canAny should pass when any role grants any action")
	}

	user.Roles = append(user.Roles, roleWith("manager", enums.ResourceBook, enums.ActionCreate, enums.ActionUpdate))
	if !CanAll(user, enums.ResourceBook, enums.ActionCreate, enums.ActionUpdate) {
		t.Fatal("canAll should pass once a single role grants both")
	}
}

func TestCan(t *testing.T) {
	user := &User{Roles: []Role{roleWith("viewer", enums.ResourceOrder, enums.ActionViewOne)}}

	tests := []struct {
		name     string
		resource enums.Resource
		action   enums.Action
		want     bool
	}{
		{name: "granted", resource: enums.ResourceOrder, action: enums.ActionViewOne, want: true},
		{name: "not granted", resource: enums.ResourceOrder, action: enums.ActionDelete},
		{name: "absent resource", resource: enums.ResourcePayment, action: enums.ActionUpdate},
		{name: "unknown action", resource: enums.ResourceOrder, action: enums.Action("teleport")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(user, tt.resource, tt.action); got != tt.want {
				t.Fatalf("Can(%s, %s) = %v, want %v", tt.resource, tt.action, got, tt.want)
			}
		})
	}
}

func TestEvaluateDeniesMissingInputs(t *testing.T) {
	if Can(nil, enums.ResourceBook, enums.ActionCreate) {
		t.Fatal("nil user must be denied")
	}
	if CanAny(&User{ID: "u1"}, enums.ResourceBook, enums.ActionCreate) {
		t.Fatal("user without roles must be denied")
	}
	user := &User{Roles: []Role{{Name: "blank"}}}
	if CanAll(user, enums.ResourceBook, enums.ActionViewOne) {
		t.Fatal("role without a permission map must be denied")
	}
}

func TestFalseFlagsAreNotGrants(t *testing.T) {
	user := &User{Roles: []Role{{
		Name: "explicit",
		Permission: types.PermissionMap{
			enums.ResourceSetting: {enums.ActionUpdate: false, enums.ActionViewOne: true},
		},
	}}}
	if Can(user, enums.ResourceSetting, enums.ActionUpdate) {
		t.Fatal("false flag must not grant")
	}
	if !CanAny(user, enums.ResourceSetting, enums.ActionUpdate, enums.ActionViewOne) {
		t.Fatal("any mode should accept the granted action")
	}
	if CanAll(user, enums.ResourceSetting, enums.ActionUpdate, enums.ActionViewOne) {
		t.Fatal("all mode should reject the false flag")
	}
}

func TestEmptyActionList(t *testing.T) {
	user := &User{Roles: []Role{roleWith("viewer", enums.ResourceBook, enums.ActionViewMany)}}
	if CanAny(user, enums.ResourceBook) {
		t.Fatal("any over no actions should be false")
	}
	if !CanAll(user, enums.ResourceBook) {
		t.Fatal("all over no actions should hold for a role defining the resource")
	}
	if CanAll(user, enums.ResourceRole) {
		t.Fatal("all over no actions still requires the resource entry")
	}
}

func TestInactiveRolesStillEvaluate(t *testing.T) {
	role := roleWith("dormant", enums.ResourceUser, enums.ActionActive)
	role.Active = false
	if !Can(&User{Roles: []Role{role}}, enums.ResourceUser, enums.ActionActive) {
		t.Fatal("active flag is not part of evaluation")
	}
}

func TestEvaluateDoesNotMutateRoles(t *testing.T) {
	role := roleWith("editor", enums.ResourceBook, enums.ActionUpdate)
	user := &User{Roles: []Role{role}}
	_ = CanAll(user, enums.ResourceBook, enums.ActionUpdate, enums.ActionDelete)
	_ = Can(user, enums.ResourceRole, enums.ActionCreate)

	if len(role.Permission) != 1 || len(role.Permission[enums.ResourceBook]) != 1 {
		t.Fatalf("permission map was mutated: %+v", role.Permission)
	}
	if _, ok := role.Permission[enums.ResourceBook][enums.ActionDelete]; ok {
		t.Fatal("evaluation inserted a missing action")
	}
}
