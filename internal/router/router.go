package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-task-manager/internal/config"
	"go-task-manager/internal/handler"
	"go-task-manager/internal/middleware"
)

type Handlers struct {
	Auth  *handler.AuthHandler
	User  *handler.UserHandler
	Task  *handler.TaskHandler
	KPI   *handler.KPIHandler
	Files *handler.FilesHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		// The auth endpoints are the public allow-list; recover-password
		// authenticates with the recovery token itself, not an access token.
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", h.Auth.SignUp)
			auth.Post("/signin", h.Auth.SignIn)
			auth.Post("/refresh-token", h.Auth.RefreshToken)
			auth.Post("/request-password-recovery", h.Auth.RequestPasswordRecovery)
			auth.Post("/recover-password", h.Auth.RecoverPassword)
			auth.With(authMiddleware.RequireAuth).Post("/change-password", h.Auth.ChangePassword)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(authMiddleware.RequireAuth)

			protected.Route("/users", func(users chi.Router) {
				users.Get("/", h.User.List)
				users.Get("/{id}", h.User.Get)
				users.Put("/{id}", h.User.Update)
				users.Delete("/{id}", h.User.Delete)
				users.Post("/{id}/avatar", h.User.UploadAvatar)
			})

			protected.Route("/tasks", func(tasks chi.Router) {
				tasks.Get("/", h.Task.List)
				tasks.Post("/", h.Task.Create)
				tasks.Delete("/", h.Task.DeleteMany)
				tasks.Delete("/mine", h.Task.DeleteAllMine)
				tasks.Get("/{id}", h.Task.Get)
				tasks.Put("/{id}", h.Task.Update)
				tasks.Patch("/{id}/state", h.Task.UpdateState)
				tasks.Delete("/{id}", h.Task.Delete)
			})

			protected.Route("/kpi", func(kpi chi.Router) {
				kpi.Get("/state-distribution", h.KPI.StateDistribution)
				kpi.Get("/pending-by-priority", h.KPI.PendingByPriority)
				kpi.Get("/completed-this-month", h.KPI.CompletedThisMonth)
				kpi.Get("/completed-per-day", h.KPI.CompletedPerDay)
				kpi.Get("/avg-completion-by-priority", h.KPI.AvgCompletionByPriority)
			})

			protected.Route("/files", func(files chi.Router) {
				files.Post("/upload", h.Files.Upload)
				files.Post("/upload-url", h.Files.UploadFromURL)
				files.Get("/optimized/*", h.Files.OptimizedURL)
				files.Get("/transformed/{width}/{height}/*", h.Files.TransformedURL)
				files.Delete("/*", h.Files.Delete)
			})
		})
	})

	return r
}
