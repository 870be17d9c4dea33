package api

import (
	"net/http"
	"time"

	"courseboard/internal/api/handler"
	"courseboard/internal/api/middleware"
	"courseboard/internal/app/service"
	"courseboard/internal/common/security"
	"courseboard/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	assignmentService *service.AssignmentService,
	submissionService *service.SubmissionService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies a bearer token when present and puts claims in context;
	// the Authenticator middleware enforces it per group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService)
	submissionHandler := handler.NewSubmissionHandler(submissionService, config.AppConfig.UploadDir)

	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		v1.Group(func(public chi.Router) {
			authHandler.RegisterRoutes(public)
		})

		// Admin-only role assignment
		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.Authenticator)
			admin.Use(middleware.AdminOnly)
			authHandler.RegisterAdminRoutes(admin)
		})

		// Everything below requires an authenticated principal; finer
		// role and ownership gating happens in the services.
		v1.Group(func(authed chi.Router) {
			authed.Use(middleware.Authenticator)
			authed.Route("/assignments", func(ar chi.Router) {
				assignmentHandler.RegisterRoutes(ar)
				submissionHandler.RegisterAssignmentRoutes(ar)
			})
			authed.Route("/submissions", submissionHandler.RegisterRoutes)
		})
	})

	return r
}
