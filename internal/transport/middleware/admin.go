package middleware

import (
	"net/http"

	"github.com/askwell/askwell-backend/pkg/ctxutil"
)

// RequireAdmin rejects requests whose context actor does not hold an admin
// role. Mount inside Auth; anonymous requests get 401, non-admins 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ctxutil.ActorFromCtx(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !actor.Role.IsAdmin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
