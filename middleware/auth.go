package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const tokenContextKey contextKey = "session_token"

// RequireBearer rejects requests without an "Authorization: Bearer" header and
// stores the raw token in the request context. Checking the token is left to
// the service that knows which tournament it must be valid for.
func RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="tournament"`)
			writeError(w, http.StatusUnauthorized, "missing or malformed bearer token")
			return
		}

		ctx := context.WithValue(r.Context(), tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFromContext returns the token stored by RequireBearer.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
