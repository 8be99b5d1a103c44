package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/aled/logistics-sandbox/internal/service"
)

type contextKey string

const (
	tokenKey    contextKey = "authToken"
	rawTokenKey contextKey = "rawToken"
)

// CookieName carries the auth token for browser clients; the Authorization
// header wins when both are present.
const CookieName = "auth_token"

// Auth resolves the caller's token and stashes the decoded identity on the
// request context. Anonymous and malformed tokens pass through as
// anonymous; protected handlers decide what that means for them.
func Auth(demos *service.DemoService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), rawTokenKey, raw)
			if tok := demos.Authenticate(raw); tok != nil {
				ctx = context.WithValue(ctx, tokenKey, tok)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetToken returns the decoded token bound to this request, if any.
func GetToken(ctx context.Context) (*domain.AuthToken, bool) {
	tok, ok := ctx.Value(tokenKey).(*domain.AuthToken)
	return tok, ok
}

// GetRawToken returns the token string exactly as the caller presented it.
func GetRawToken(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(rawTokenKey).(string)
	return raw, ok
}

func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
