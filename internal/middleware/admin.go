package middleware

import (
	"log/slog"
	"net/http"

	"travian-planner/internal/auth"
	"travian-planner/internal/shared/errors"
	"travian-planner/internal/shared/response"
)

func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "admin",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if claims.Role != auth.RoleAdmin {
			logger.Warn("Non-admin token used on admin endpoint",
				"subject", claims.Subject,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin authenticates the request and checks the admin role. With an
// empty secret every request is refused.
func RequireAdmin(secret string, next http.Handler) http.Handler {
	if secret == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := slog.With("middleware", "admin", "path", r.URL.Path)
			response.Error(w, r, logger, errors.Forbidden("admin endpoints are disabled: JWT_SECRET is not configured"))
		})
	}
	return JWTMiddleware(secret)(AdminMiddleware(next))
}
