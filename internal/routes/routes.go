package routes

import (
	"net/http"

	"github.com/skyward/accountd/internal/app"
	"github.com/skyward/accountd/internal/handler"
	"github.com/skyward/accountd/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	user := handler.NewUserHandler(app.UserService)
	image := handler.NewImageHandler(app.ImageService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /healthz", health.Check)
	mux.HandleFunc("POST /v1/user", user.Create)
	mux.HandleFunc("GET /v1/user/verify", user.Verify)

	// Authenticated (Basic credentials on every request)
	auth := app.AuthService
	mux.HandleFunc("GET /v1/user/self", middleware.RequireAuth(auth, user.Self))
	mux.HandleFunc("PUT /v1/user/self", middleware.RequireAuth(auth, user.UpdateSelf))
	mux.HandleFunc("POST /v1/user/self/pic", middleware.RequireAuth(auth, image.Upload))
	mux.HandleFunc("GET /v1/user/self/pic", middleware.RequireAuth(auth, image.Get))
	mux.HandleFunc("DELETE /v1/user/self/pic", middleware.RequireAuth(auth, image.Delete))

	return middleware.RequestLogging(mux)
}
