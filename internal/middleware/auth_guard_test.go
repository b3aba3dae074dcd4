package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1hemant2/Library-Management-System/internal/middleware"
	"github.com/1hemant2/Library-Management-System/internal/utils"
)

func guardedHandler(t *testing.T, sawAdminID *string) http.Handler {
	t.Helper()
	return middleware.AuthGuard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*sawAdminID = middleware.AdminIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthGuard(t *testing.T) {
	utils.InitJwtSecret("test-secret")

	validToken, err := utils.GenerateJWT("64f1c0ffee", "hemant")
	require.NoError(t, err)

	expiredClaims := utils.AdminClaims{
		AdminID: "64f1c0ffee",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expiredToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name        string
		authHeader  string
		wantStatus  int
		wantMessage string
	}{
		{"Missing header", "", http.StatusUnauthorized, "Authorization header is missing"},
		{"Missing token", "Bearer ", http.StatusUnauthorized, "Token is missing from Authorization header"},
		{"Wrong scheme", "Basic abc123", http.StatusUnauthorized, "Token is missing from Authorization header"},
		{"No space after scheme", "Bearer" + validToken, http.StatusUnauthorized, "Token is missing from Authorization header"},
		{"Invalid token", "Bearer not.a.token", http.StatusUnauthorized, "Invalid token"},
		{"Expired token", "Bearer " + expiredToken, http.StatusUnauthorized, "Token has expired"},
		{"Valid token", "Bearer " + validToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sawAdminID string
			req := httptest.NewRequest(http.MethodGet, "/admin/verify", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			guardedHandler(t, &sawAdminID).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMessage != "" {
				assert.True(t, strings.Contains(w.Body.String(), tt.wantMessage),
					"body %q should contain %q", w.Body.String(), tt.wantMessage)
			}
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "64f1c0ffee", sawAdminID)
			}
		})
	}
}
