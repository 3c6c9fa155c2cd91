package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/daveokon/medistaff/internal/api/handlers"
	appMiddleware "github.com/daveokon/medistaff/internal/api/middlewares"
	"github.com/daveokon/medistaff/internal/config"
	"github.com/daveokon/medistaff/internal/core"
	uploadstore "github.com/daveokon/medistaff/internal/core/upload-store"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, db core.DbClient, obj core.ObjectClient, extractor core.DocumentExtractor, provider core.ChatProvider, store *uploadstore.Store) *Server {
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret)
	staffHandler := handlers.NewStaffHandler(db, obj)
	consultationHandler := handlers.NewConsultationHandler(db)
	chatHandler := handlers.NewChatHandler(extractor, provider, cfg)
	imageHandler := handlers.NewImageHandler(extractor, provider, store, cfg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// OCR plus a remote completion can take a while on large images.
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Stored image-analysis artifacts stay externally readable until the
	// reaper retires them.
	fileServer := http.FileServer(http.Dir(store.Dir()))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/signup", authHandler.Signup)
		api.Post("/login", authHandler.Login)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWT(cfg.JWTSecret))

			protected.Post("/chat", chatHandler.Chat)
			protected.Post("/image-analysis", imageHandler.Analyze)

			protected.Post("/staff", staffHandler.Create)
			protected.Get("/staff", staffHandler.List)
			protected.Get("/staff/{id}", staffHandler.Get)
			protected.Put("/staff/{id}", staffHandler.Update)
			protected.Delete("/staff/{id}", staffHandler.Delete)
			protected.Post("/staff/{id}/avatar", staffHandler.UploadAvatar)

			protected.Post("/consultations", consultationHandler.Create)
			protected.Get("/consultations", consultationHandler.List)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
