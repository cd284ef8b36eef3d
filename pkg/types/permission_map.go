package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/bookstore-backend/pkg/enums"
)

// RuleSet holds the boolean action flags a role carries for one resource.
type RuleSet map[enums.Action]bool

// PermissionMap is a role's grants keyed by resource, stored as a JSON column.
type PermissionMap map[enums.Resource]RuleSet

// Value implements driver.Valuer.
func (p PermissionMap) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("permission map: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for text, bytea and jsonb columns.
func (p *PermissionMap) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = PermissionMap{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("permission map: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*p = PermissionMap{}
		return nil
	}
	decoded := PermissionMap{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("permission map: %w", err)
	}
	*p = decoded
	return nil
}

// Clone returns a deep copy so callers cannot alias a role's grants.
func (p PermissionMap) Clone() PermissionMap {
	if p == nil {
		return nil
	}
	out := make(PermissionMap, len(p))
	for resource, rules := range p {
		copied := make(RuleSet, len(rules))
		for action, granted := range rules {
			copied[action] = granted
		}
		out[resource] = copied
	}
	return out
}
