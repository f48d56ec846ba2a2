package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/schedulo/schedulo/internal/auth"
	"github.com/schedulo/schedulo/internal/classes"
	"github.com/schedulo/schedulo/internal/courses"
	"github.com/schedulo/schedulo/internal/periods"
	"github.com/schedulo/schedulo/internal/rooms"
	"github.com/schedulo/schedulo/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Gate           *auth.Gate
	AuthHandler    *auth.Handler
	UsersHandler   *users.Handler
	CoursesHandler *courses.Handler
	ClassesHandler *classes.Handler
	RoomsHandler   *rooms.Handler
	PeriodsHandler *periods.Handler
}

// NewRouter constructs the chi.Router with Schedulo defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(params.Gate.Middleware())
		r.Use(auth.RequireAuthenticated)

		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/courses", func(r chi.Router) {
			params.CoursesHandler.MountRoutes(r)
			r.Route("/{courseId}/classes", params.ClassesHandler.MountRoutes)
		})
		r.Route("/rooms", params.RoomsHandler.MountRoutes)
		r.Route("/periods", params.PeriodsHandler.MountRoutes)
	})

	return r
}
