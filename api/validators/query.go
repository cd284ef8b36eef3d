package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/bookstore-backend/pkg/errors"
)

// ParseQueryList splits a comma separated query parameter, accepting repeated
// keys as well. Empty entries are dropped.
func ParseQueryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// RequireQuery returns the trimmed parameter or a validation error.
func RequireQuery(r *http.Request, key string) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "missing query parameter").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
