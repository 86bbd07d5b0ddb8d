package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/zendaapp/zenda-access/internal/http/response"
)

// RequireAdmin пропускает дальше только пользователей с ролью admin.
// Остальные получают 403 с кодом permission_denied.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role != "admin" {
				log.Error("admin access denied",
					slog.String("role", role),
					slog.String("path", r.URL.Path))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.ErrorWithCode("admin role required", response.CodePermissionDenied))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
