package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bookstore-backend/api/validators"
	"github.com/angelmondragon/bookstore-backend/pkg/logger"
)

const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionCookie = "cart_session"

	maxCartSessionLen = 128
)

var cartSessionRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// CartSession resolves the caller's cart session from the X-Cart-Session
// header or the cart_session cookie, minting a new one when neither carries a
// usable value. The resolved id is echoed on the response header and cookie.
func CartSession(cookieTTL time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := resolveCartSession(r)
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(CartSessionHeader, sessionID)
			http.SetCookie(w, &http.Cookie{
				Name:     CartSessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(cookieTTL.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithCartSession(r.Context(), sessionID)
			ctx = logg.WithCartSession(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveCartSession(r *http.Request) string {
	if id := validators.SanitizeString(r.Header.Get(CartSessionHeader), 0); validCartSession(id) {
		return id
	}
	if cookie, err := r.Cookie(CartSessionCookie); err == nil {
		if id := validators.SanitizeString(cookie.Value, 0); validCartSession(id) {
			return id
		}
	}
	return ""
}

func validCartSession(id string) bool {
	return id != "" && len(id) <= maxCartSessionLen && cartSessionRe.MatchString(id)
}
