package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/1hemant2/Library-Management-System/internal/utils"
)

type contextKey string

// ContextAdminID holds the admin id decoded from the bearer token.
const ContextAdminID contextKey = "admin_id"

// AuthGuard gates every protected route. The four failure modes answer
// 401 with distinct messages so the client can tell a stale session
// from a malformed one.
func AuthGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			utils.JSONError(w, "Authorization header is missing", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			utils.JSONError(w, "Token is missing from Authorization header", http.StatusUnauthorized)
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if tokenStr == "" {
			utils.JSONError(w, "Token is missing from Authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ParseJWT(tokenStr)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				utils.JSONError(w, "Token has expired", http.StatusUnauthorized)
				return
			}
			utils.JSONError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextAdminID, claims.AdminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminIDFromContext returns the admin id placed by AuthGuard, or "".
func AdminIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextAdminID).(string)
	return id
}
