package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"avatargen/internal/http/handlers"
	appmw "avatargen/internal/middleware"
)

// NewRouter wires the HTTP surface: the generation endpoints, the seed
// reports, and the static avatar form.
func NewRouter(app *handlers.App, staticDir string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		appmw.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		appmw.Logger(app.Log),
	)

	r.Get("/v1/healthz", app.Health)

	r.Post("/generate", app.Generate)
	r.Post("/upscale", app.Upscale)
	r.Get("/seeds", app.ListSeeds)
	r.Get("/debug/seeds", app.DebugSeeds)

	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}

	return r
}
