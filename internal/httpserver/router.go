package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolhaven/internal/auth"
	"toolhaven/internal/config"
	"toolhaven/internal/email"
	"toolhaven/internal/httpserver/handlers"
	"toolhaven/internal/metrics"
	"toolhaven/internal/models"
)

// NewRouter wires the full API surface. A nil db means the backend is
// unconfigured or unreachable; every /v1 route then serves the visible
// connection-error state instead of panicking.
func NewRouter(db *gorm.DB, lg *zap.SugaredLogger, cfg config.Config, mailer email.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware)

	r.Get("/healthz", healthz(db))
	r.Handle("/metrics", metrics.Handler())

	if db == nil {
		r.Route("/v1", func(v1 chi.Router) {
			v1.HandleFunc("/*", handlers.BackendUnavailable())
		})
		return r
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/auth/signup", handlers.Signup(db, lg))
		v1.Post("/auth/login", handlers.Login(db, lg))
		v1.Get("/auth/federated/start", handlers.FederatedStart(cfg, lg))
		v1.Get("/auth/federated/callback", handlers.FederatedCallback(db, cfg, lg))

		v1.Get("/blogs", handlers.ListBlogs(db, lg))
		v1.Get("/blogs/{slug}", handlers.GetBlog(db, lg))
		v1.Post("/blogs/{slug}/like", handlers.LikeBlog(db, lg))
		v1.Get("/categories", handlers.ListCategories(db, lg))
		v1.Get("/tools", handlers.ListTools(db, lg))
		v1.Get("/tools/{slug}", handlers.GetTool(db, lg))
		v1.Post("/newsletter", handlers.SubscribeNewsletter(db, mailer, lg))
		v1.With(auth.OptionalAuth(db)).Post("/contact", handlers.SubmitContact(db, mailer, lg))

		v1.Group(func(protected chi.Router) {
			protected.Use(auth.JWTAuth(db))
			protected.Get("/me", handlers.Me(db, lg))
			protected.Post("/auth/logout", handlers.Logout(db, lg))
			protected.Post("/auth/password", handlers.ChangePassword(db, lg))

			protected.Group(func(admin chi.Router) {
				admin.Use(auth.RequireRole(models.RoleAdministrator))
				admin.Get("/admin/blogs", handlers.AdminListBlogs(db, lg))
				admin.Post("/admin/blogs", handlers.CreateBlog(db, lg))
				admin.Patch("/admin/blogs/{id}", handlers.UpdateBlog(db, lg))
				admin.Delete("/admin/blogs/{id}", handlers.DeleteBlog(db, lg))
				admin.Post("/admin/tools", handlers.CreateTool(db, lg))
				admin.Patch("/admin/tools/{id}", handlers.UpdateTool(db, lg))
				admin.Delete("/admin/tools/{id}", handlers.DeleteTool(db, lg))
				admin.Get("/admin/users", handlers.ListUsers(db, lg))
				admin.Patch("/admin/users/{id}", handlers.UpdateUser(db, lg))
				admin.Delete("/admin/users/{id}", handlers.DeleteUser(db, lg))
				admin.Get("/admin/logs", handlers.AuditLogs(db, lg))
			})
		})
	})
	return r
}

func healthz(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db == nil {
			_, _ = w.Write([]byte(`{"status":"degraded","database":"down"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","database":"up"}`))
	}
}
