package enums

import "fmt"

// Action is a verb a role may be granted on a Resource.
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionViewOne  Action = "viewOne"
	ActionViewMany Action = "viewMany"
	ActionDelete   Action = "delete"
	ActionActive   Action = "active"
	ActionFeatured Action = "featured"
)

// ResourceActions is the fixed action catalog for each resource. Role writes are
// validated against it; permission evaluation never is.
var ResourceActions = map[Resource][]Action{
	ResourceUser:    {ActionCreate, ActionUpdate, ActionViewOne, ActionViewMany, ActionDelete, ActionActive},
	ResourceBook:    {ActionCreate, ActionUpdate, ActionViewOne, ActionViewMany, ActionDelete, ActionActive, ActionFeatured},
	ResourceOrder:   {ActionCreate, ActionUpdate, ActionViewOne, ActionViewMany, ActionDelete},
	ResourcePayment: {ActionCreate, ActionUpdate, ActionViewOne, ActionViewMany},
	ResourceRole:    {ActionCreate, ActionUpdate, ActionViewOne, ActionViewMany, ActionDelete, ActionActive},
	ResourceSetting: {ActionUpdate, ActionViewOne},
}

// String implements fmt.Stringer.
func (a Action) String() string {
	return string(a)
}

// AllowedOn reports whether the action belongs to the resource's catalog.
func (a Action) AllowedOn(resource Resource) bool {
	for _, candidate := range ResourceActions[resource] {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAction converts raw input into an Action known to any resource.
func ParseAction(value string) (Action, error) {
	for _, actions := range ResourceActions {
		for _, candidate := range actions {
			if string(candidate) == value {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("invalid action %q", value)
}
