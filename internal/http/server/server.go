package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"urlshortener/internal/config"
	"urlshortener/internal/domain/models"
	"urlshortener/internal/http/handlers/accounts/login"
	"urlshortener/internal/http/handlers/accounts/refresh"
	"urlshortener/internal/http/handlers/accounts/register"
	"urlshortener/internal/http/handlers/links/create_link"
	"urlshortener/internal/http/handlers/links/delete_link"
	"urlshortener/internal/http/handlers/links/find_link"
	"urlshortener/internal/http/handlers/links/list_links"
	"urlshortener/internal/http/handlers/links/redirect"
	"urlshortener/internal/http/handlers/links/update_link"
	"urlshortener/internal/http/handlers/middlewares/auth"
	"urlshortener/internal/http/handlers/middlewares/compressor"
	"urlshortener/internal/http/handlers/middlewares/cors"
	"urlshortener/internal/http/handlers/middlewares/logger"
	"urlshortener/internal/http/handlers/middlewares/ratelimit"
	"urlshortener/internal/http/handlers/system/getping"
	"urlshortener/internal/http/httputils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type Accounts interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (models.User, models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (models.User, error)
}

type LinkShortener interface {
	Create(ctx context.Context, userID int64, originalURL string) (models.ShortenedLink, error)
	List(ctx context.Context, userID int64) ([]models.ShortenedLink, error)
	Get(ctx context.Context, userID, id int64) (models.ShortenedLink, error)
	Update(ctx context.Context, userID, id int64, patch models.LinkPatch) (models.ShortenedLink, error)
	Delete(ctx context.Context, userID, id int64) error
	Resolve(ctx context.Context, code string) (models.ShortenedLink, error)
	PingDataBase(ctx context.Context) error
	ShortURL(code string) string
	UpdateURL(id int64) string
}

type Server struct {
	httpServer *http.Server
	router     *mux.Router
	log        *zerolog.Logger
	links      LinkShortener
	accounts   Accounts
	cfg        config.ServerConfig
}

func NewServer(log *zerolog.Logger, cfg config.ServerConfig, links LinkShortener, accounts Accounts) (*Server, error) {
	if cfg.ServerAddress == "" {
		return nil, errors.New("server address cannot be empty")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if links == nil {
		return nil, errors.New("link service cannot be nil")
	}
	if accounts == nil {
		return nil, errors.New("accounts service cannot be nil")
	}

	s := &Server{
		router:   mux.NewRouter(),
		cfg:      cfg,
		log:      log,
		links:    links,
		accounts: accounts,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           s.Handler(),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.setupRoutes()
	return s, nil
}

// Handler - корневой обработчик с CORS поверх роутера.
func (s *Server) Handler() http.Handler {
	return cors.MiddlewareCORS(s.cfg.CORSOrigins)(s.router)
}

func (s *Server) setupRoutes() {
	s.router.Use(logger.MiddlewareLogging(s.log))
	s.router.Use(compressor.MiddlewareCompressing())

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputils.WriteDetail(w, http.StatusNotFound, httputils.DetailNotFound)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputils.WriteDetail(w, http.StatusMethodNotAllowed, httputils.DetailMethodNotAllowed)
	})

	general := ratelimit.NewLimiter(s.cfg.RateLimitRPM)

	s.router.Handle("/ping", getping.HandlerPing(s.links, s.log)).Methods(http.MethodGet)

	/*
		Public routes (without auth)
	*/
	accountsRouter := s.router.PathPrefix("/api/accounts").Subrouter()
	accountsRouter.Use(ratelimit.NewLimiter(s.cfg.AuthRateLimitRPM).Middleware)
	accountsRouter.HandleFunc("/register/", register.HandlerRegister(s.accounts, s.log)).Methods(http.MethodPost) // 201
	accountsRouter.HandleFunc("/login/", login.HandlerLogin(s.accounts, s.log)).Methods(http.MethodPost)          // 200
	accountsRouter.HandleFunc("/token/refresh/", refresh.HandlerRefresh(s.accounts, s.log)).Methods(http.MethodPost)

	/*
		Protected routes (with auth), до публичного редиректа: иначе
		/api/links/urls/... совпал бы с /api/links/{code}/
	*/
	linksRouter := s.router.PathPrefix("/api/links/urls").Subrouter()
	linksRouter.Use(general.Middleware)
	linksRouter.Use(auth.MiddlewareAuth(s.accounts, s.log))
	linksRouter.HandleFunc("/create/", create_link.HandlerCreateLink(s.links, s.log)).Methods(http.MethodPost) // 201
	linksRouter.HandleFunc("/list/", list_links.HandlerListLinks(s.links, s.log)).Methods(http.MethodGet)
	linksRouter.HandleFunc("/{id:[0-9]+}/", find_link.HandlerFindLink(s.links, s.log)).Methods(http.MethodGet)
	linksRouter.HandleFunc("/{id:[0-9]+}/update/", update_link.HandlerUpdateLink(s.links, s.log)).Methods(http.MethodPut, http.MethodPatch)
	linksRouter.HandleFunc("/{id:[0-9]+}/delete/", delete_link.HandlerDeleteLink(s.links, s.log)).Methods(http.MethodDelete) // 204

	redirectRouter := s.router.PathPrefix("/api/links").Subrouter()
	redirectRouter.Use(general.Middleware)
	redirectRouter.HandleFunc("/{code:[A-Za-z0-9]+}/", redirect.HandlerRedirect(s.links, s.log)).Methods(http.MethodGet) // 302
}

func (s *Server) Start(ctx context.Context) error {
	s.log.Info().Str("address", s.cfg.ServerAddress).Str("base_url", s.cfg.BaseURL).Msg("Starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
