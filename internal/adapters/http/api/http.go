// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/okian/typerank/internal/adapters/http/swagger"
	service "github.com/okian/typerank/internal/app"
	"github.com/okian/typerank/internal/auth"
	"github.com/okian/typerank/internal/domain/score"
	"github.com/okian/typerank/internal/domain/types"
	"github.com/okian/typerank/pkg/logger"
	"golang.org/x/time/rate"
)

// Defaults for the login limiter and request bodies.
const (
	DefaultLoginRatePerMinute = 10
	DefaultLoginBurst         = 5
	maxBodyBytes              = 1 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	GetLeaderboard(ctx context.Context) ([]score.Record, error)
	GetRank(ctx context.Context, name string) (types.Placement, bool, error)
	AddScore(ctx context.Context, admin bool, in score.Input) (score.Record, error)
	DeleteScore(ctx context.Context, admin bool, id string) error
	Stats(ctx context.Context) map[string]any
}

// Authenticator issues and checks admin tokens.
type Authenticator interface {
	Login(ctx context.Context, password string) (string, error)
	Verify(token string) (auth.Claims, error)
	HasPassword() bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps   Dependencies
	authn  Authenticator
	logger logger.Logger

	allowOrigin  string
	loginLimiter *IPRateLimiter
	now          func() time.Time
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAllowOrigin sets the Access-Control-Allow-Origin value.
func WithAllowOrigin(origin string) Option {
	return func(s *Server) {
		if origin != "" {
			s.allowOrigin = origin
		}
	}
}

// WithLoginRate limits login attempts per client IP.
func WithLoginRate(perMinute, burst int) Option {
	return func(s *Server) {
		if perMinute > 0 && burst > 0 {
			s.loginLimiter = NewIPRateLimiter(rate.Limit(float64(perMinute)/60), burst)
		}
	}
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, authn Authenticator, opts ...Option) *Server {
	s := &Server{
		deps:        deps,
		authn:       authn,
		allowOrigin: "*",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.loginLimiter == nil {
		s.loginLimiter = NewIPRateLimiter(rate.Limit(float64(DefaultLoginRatePerMinute)/60), DefaultLoginBurst)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(CORSMiddleware(s.allowOrigin))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})

	r.Get("/healthz", MetricsMiddleware(HandleHealth, "healthz"))
	swagger.Register(r)

	r.Route("/api", func(r chi.Router) {
		r.Get("/leaderboard", MetricsMiddleware(s.handleGetLeaderboard, "leaderboard"))
		r.Get("/rank/{name}", MetricsMiddleware(s.handleGetRank, "rank"))
		r.Get("/rank/", MetricsMiddleware(s.handleGetRank, "rank"))
		r.Get("/status", MetricsMiddleware(s.handleStatus, "status"))

		r.Route("/admin", func(r chi.Router) {
			r.With(RateLimitMiddleware(s.loginLimiter)).
				Post("/login", MetricsMiddleware(s.handleLogin, "admin_login"))

			r.Group(func(r chi.Router) {
				r.Use(AdminMiddleware(s.authn))
				r.Post("/add-score", MetricsMiddleware(s.handleAddScore, "admin_add_score"))
				r.Delete("/score/{id}", MetricsMiddleware(s.handleDeleteScore, "admin_delete_score"))
			})
		})
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a use-case error to a status. Storage and unknown
// failures are logged and reported without detail.
func (s *Server) writeFailure(ctx context.Context, w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, score.ErrInvalid), errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrMissingName), errors.Is(err, auth.ErrMissingPassword):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, auth.ErrInvalidPassword), errors.Is(err, ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidSignature):
		writeError(w, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "forbidden", err)
	default:
		s.logger.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// decodeBody reads a JSON request body into v. Numbers decode as json.Number.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

// pathParam returns the decoded, trimmed URL parameter key. chi matches on
// r.URL.RawPath when it is set, so its params are still percent-encoded.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(v)
		if err != nil {
			return "", errors.Join(ErrBadRequest, err)
		}
		v = decoded
	}
	return strings.TrimSpace(v), nil
}
