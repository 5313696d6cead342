package middleware

import (
	"net/http"

	"github.com/skyward/accountd/internal/ctxkeys"
	"github.com/skyward/accountd/internal/handler"
	"github.com/skyward/accountd/internal/service"
)

// RequireAuth authenticates the Basic credential header on every request and
// stores the principal in the request context. No session is created.
func RequireAuth(authService *service.AuthService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := authService.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			handler.WriteError(w, err)
			return
		}

		ctx := ctxkeys.WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
