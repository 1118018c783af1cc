package httpapi

import (
	"net/http"
	"time"

	"kaizen-backend-go/internal/config"
	"kaizen-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB      *sqlx.DB
	Config  config.Config
	Tokens  services.TokenService
	Uploads services.UploadStore
}

func NewServer(db *sqlx.DB, cfg config.Config) *Server {
	tokens := services.TokenService{
		Secret:    []byte(cfg.JWTSecret),
		Issuer:    cfg.JWTIssuer,
		AccessTTL: time.Duration(cfg.AccessTTLSeconds) * time.Second,
	}
	return &Server{
		DB:      db,
		Config:  cfg,
		Tokens:  tokens,
		Uploads: services.UploadStore{Dir: cfg.UploadDir},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", s.Healthz)
	r.Get("/uploads/{filename}", s.ServeUpload)

	r.Route("/api", func(api chi.Router) {
		api.Use(WithOptionalAuth(s.Tokens))

		api.Post("/auth/login", s.Login)
		api.Post("/auth/register", s.Register)

		api.Route("/cases", func(cases chi.Router) {
			cases.Get("/", s.ListCases)
			cases.Post("/", s.CreateCase)
			cases.Get("/{caseId}", s.GetCase)
			cases.Put("/{caseId}", s.UpdateCase)
			cases.Delete("/{caseId}", s.DeleteCase)
			cases.Post("/{caseId}/like", s.ToggleLike)
			cases.Get("/{caseId}/comments", s.ListComments)
			cases.Post("/{caseId}/comments", s.AddComment)
		})

		api.Get("/factories", s.ListFactories)
		api.Get("/departments", s.ListDepartments)

		api.Route("/summary", func(summary chi.Router) {
			summary.Get("/top-views", s.TopViews)
			summary.Get("/statistics", s.Statistics)
		})
	})
	return r
}
