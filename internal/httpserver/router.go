package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"dmchat/internal/blob"
	"dmchat/internal/config"
	"dmchat/internal/metrics"
	"dmchat/internal/service"
	"dmchat/internal/ws"

	_ "dmchat/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Messages *service.MessageService
	Uploads  *blob.LocalStore
	Hub      *ws.Hub
	Limiter  Limiter
}

// NewRouter constructs the main HTTP router and wires routes and middleware.
func NewRouter(cfg *config.Config, d Deps) http.Handler {
	r := chi.NewRouter()
	inlineLimit := inlineBodyLimit(d.Uploads.MaxSize())

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Handle("/metrics", metrics.Handler())

	// Swagger documentation
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// WebSocket endpoint. Long-lived, so it stays outside the timeout group.
	r.Get("/ws", ws.MakeHandler(d.Hub, d.Auth, cfg.CORSOrigins))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/uploads/{filename}", handleServeUpload(d.Uploads))

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(d.Auth))

			r.Get("/auth/me", handleMe())
			r.Get("/users/{userID}", handleGetUser(d.Users))
			r.Get("/conversations", handleListPartners(d.Messages))

			r.Route("/messages", func(r chi.Router) {
				r.Get("/{id}", handleGetConversation(d.Messages))
				r.Get("/{id}/search", handleSearch(d.Messages))

				r.Group(func(r chi.Router) {
					r.Use(RateLimit(d.Limiter))
					r.Post("/{id}", handleSendMessage(d.Messages, inlineLimit))
					r.Put("/{id}", handleEditMessage(d.Messages))
					r.Delete("/{id}", handleDeleteMessage(d.Messages))
					r.Post("/{id}/react", handleReact(d.Messages))
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(RateLimit(d.Limiter))
				r.Post("/uploads", handleUpload(d.Uploads))
				r.Post("/audio/upload", handleUploadAudio(d.Messages, inlineLimit))
			})
		})
	})

	return r
}

// writeJSON is a small helper to send JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
