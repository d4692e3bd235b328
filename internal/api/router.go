package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"studyshare/internal/models"
)

// Routes mounts the full HTTP surface. Folder and resource reads are
// public; mutations require a tech or admin token, the admin surface an
// admin token.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("StudyShare API is running. Documentation at /swagger/index.html"))
	})

	r.Get("/health", s.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.SignupHandler)
		r.Post("/auth/login", s.LoginHandler)
		r.Post("/auth/refresh", s.RefreshTokenHandler)
		r.Post("/auth/logout", s.LogoutHandler)

		// Anyone can browse folders and download resources.
		r.Get("/folders", s.ListFoldersHandler)
		r.Get("/folders/tree", s.FolderTreeHandler)
		r.Get("/folders/{folderId}", s.GetFolderHandler)
		r.Get("/folders/{folderId}/resource-count", s.CountFolderResourcesHandler)
		r.Get("/resources", s.ListResourcesHandler)
		r.Get("/resources/{resourceId}/download", s.DownloadResourceHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)

			r.Get("/me", s.GetCurrentUserHandler)
			r.Get("/sessions", s.ListSessionsHandler)
			r.Delete("/sessions/{sessionId}", s.DeleteSessionHandler)
			r.Post("/sessions/terminate_all", s.TerminateAllSessionsHandler)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(models.RoleTech, models.RoleAdmin))
				r.Post("/folders", s.CreateFolderHandler)
				r.Patch("/folders/{folderId}", s.UpdateFolderHandler)
				r.Post("/folders/{folderId}/move", s.MoveFolderHandler)
				r.Delete("/folders/{folderId}", s.DeleteFolderHandler)
				r.Post("/resources", s.UploadResourceHandler)
				r.Patch("/resources/{resourceId}", s.UpdateResourceHandler)
				r.Delete("/resources/{resourceId}", s.DeleteResourceHandler)
			})

			r.Get("/posts", s.ListPostsHandler)
			r.Post("/posts", s.CreatePostHandler)
			r.Get("/posts/{postId}", s.GetPostHandler)
			r.Delete("/posts/{postId}", s.DeletePostHandler)
			r.Post("/posts/{postId}/comments", s.CreateCommentHandler)
			r.Post("/posts/{postId}/like", s.TogglePostLikeHandler)

			r.Get("/events", s.GetEventsHandler)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(models.RoleAdmin))
				r.Get("/admin/users", s.ListUsersHandler)
				r.Patch("/admin/users/{userId}/role", s.UpdateUserRoleHandler)
				r.Delete("/admin/users/{userId}", s.DeleteUserHandler)
			})
		})
	})

	return r
}
