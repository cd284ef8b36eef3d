package enums

import "fmt"

// Resource names a permission-guarded area of the platform.
type Resource string

const (
	ResourceUser    Resource = "user"
	ResourceBook    Resource = "book"
	ResourceOrder   Resource = "order"
	ResourcePayment Resource = "payment"
	ResourceRole    Resource = "role"
	ResourceSetting Resource = "setting"
)

var validResources = []Resource{
	ResourceUser,
	ResourceBook,
	ResourceOrder,
	ResourcePayment,
	ResourceRole,
	ResourceSetting,
}

// String implements fmt.Stringer.
func (r Resource) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Resource.
func (r Resource) IsValid() bool {
	for _, candidate := range validResources {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseResource converts raw input into a Resource.
func ParseResource(value string) (Resource, error) {
	for _, candidate := range validResources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resource %q", value)
}

// Resources lists every known resource in declaration order.
func Resources() []Resource {
	out := make([]Resource, len(validResources))
	copy(out, validResources)
	return out
}
