package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/asimsek-dev/quillpad/internal/utils"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the decoded {id, username} pair a valid token carries.
type Identity struct {
	UserID   uint
	Username string
}

// IdentityFrom returns the authenticated identity attached to the request
// context, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// RequireAuth rejects requests without a valid x-auth-token header.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := r.Header.Get("x-auth-token")
		if tokenStr == "" {
			utils.JSONError(w, http.StatusUnauthorized, "User is not allowed to see this page")
			return
		}

		claims, err := utils.ParseToken(tokenStr)
		if err != nil {
			utils.JSONError(w, http.StatusBadRequest, "Broken token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth decodes the token when present but lets the request through
// unauthenticated otherwise. Read routes use it to widen the result set for
// owners.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.Header.Get("x-auth-token")
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := utils.ParseToken(tokenStr)
		if err != nil {
			log.Printf("Ignoring invalid token on %s: %v", r.URL.Path, err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
