package middleware

import (
	"net/http"
	"strings"

	"event-manager-backend/auth"
	c "event-manager-backend/context"
	"event-manager-backend/logger"
	"event-manager-backend/response"
)

// Authenticate resolves the bearer token into the request actor. Requests
// without a token continue as anonymous visitors; a bad token is refused.
func Authenticate(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := bearer(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			actor, err := resolver.Actor(ctx, token)
			if err != nil {
				logger.Warnf(ctx, "authenticate: %v", err)
				response.Unauthorized().Send(ctx, w)
				return
			}
			next.ServeHTTP(w, r.WithContext(c.WithActor(ctx, actor)))
		})
	}
}

func bearer(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
