package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cse-motors/motors/internal/account"
	"github.com/cse-motors/motors/internal/auth"
	"github.com/cse-motors/motors/internal/comparison"
	"github.com/cse-motors/motors/internal/config"
	"github.com/cse-motors/motors/internal/database"
	"github.com/cse-motors/motors/internal/flash"
	"github.com/cse-motors/motors/internal/inventory"
	"github.com/cse-motors/motors/internal/render"
)

// Server wires the stores, middleware and handlers into one router.
type Server struct {
	Config *config.Config
	Router *chi.Mux
}

func New(cfg *config.Config, db *database.DB) (*Server, error) {
	tokens := auth.NewTokenManager(cfg.Secrets.AccessToken)
	fl := flash.New(cfg.Secrets.Session)
	mw := auth.NewMiddleware(tokens, fl)

	inventoryStore := inventory.NewStore(db)
	accountStore := account.NewStore(db)
	comparisonStore := comparison.NewStore(db)

	renderer, err := render.New(cfg.TemplateDir, inventoryStore, fl)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	var images inventory.ImageUploader
	if cfg.Storage.Enabled {
		store, err := inventory.NewImageStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing image storage: %w", err)
		}
		images = store
	}

	accountHandler := account.NewHandler(accountStore, tokens, fl, renderer, cfg.SecureCookies())
	inventoryHandler := inventory.NewHandler(inventoryStore, images, fl, renderer)
	comparisonHandler := comparison.NewHandler(comparisonStore, inventoryStore, fl, renderer)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.Authenticate)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		renderer.Render(w, req, "index.html", "Home", nil)
	})

	r.Mount("/account", accountHandler.Routes(mw))
	r.Mount("/inv", inventoryHandler.Routes(mw))
	r.Mount("/compare", comparisonHandler.Routes(mw))

	// Intentional failure route, kept for exercising the error page.
	r.Get("/error/", func(w http.ResponseWriter, req *http.Request) {
		renderer.Error(w, req, http.StatusInternalServerError, "")
	})

	fileServer := http.FileServer(http.Dir(cfg.StaticDir))
	r.Handle("/images/*", fileServer)
	r.Handle("/css/*", fileServer)
	r.Handle("/js/*", fileServer)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		renderer.Error(w, req, http.StatusNotFound, "Sorry, we appear to have lost that page.")
	})

	return &Server{Config: cfg, Router: r}, nil
}

func (s *Server) Serve() error {
	addr := fmt.Sprintf("0.0.0.0:%d", s.Config.HTTPPort)
	log.Printf("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Router)
}
