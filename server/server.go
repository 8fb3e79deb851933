package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-identity-bridge/identity"
	"github.com/jrsteele09/go-identity-bridge/internal/config"
	"github.com/jrsteele09/go-identity-bridge/profiles"
	"github.com/jrsteele09/go-identity-bridge/sessions"
	"github.com/jrsteele09/go-identity-bridge/tasks"
	"github.com/jrsteele09/go-identity-bridge/token/keys"
	"github.com/rs/zerolog/log"
)

// Config is the part of the application configuration the HTTP surface reads
type Config interface {
	config.EnvConfig
	config.CorsConfig
}

// AssertionVerifier verifies provider identity assertions
type AssertionVerifier interface {
	Verify(ctx context.Context, assertion string) (identity.VerifiedIdentity, error)
}

type ProfileSyncer interface {
	SyncProfile(ctx context.Context, id identity.VerifiedIdentity) (profiles.Profile, error)
	SyncProfileWithDetails(ctx context.Context, id identity.VerifiedIdentity, details profiles.Details) (profiles.Profile, error)
	Get(ctx context.Context, id identity.VerifiedIdentity) (profiles.Profile, error)
}

type SessionIssuer interface {
	DeriveSession(ctx context.Context, id identity.VerifiedIdentity) (sessions.Session, error)
	Validate(ctx context.Context, raw string) (identity.VerifiedIdentity, error)
	Revoke(ctx context.Context, raw string) error
	Issuer() string
	JWKS() (*keys.JWKS, error)
}

type TaskService interface {
	List(ctx context.Context, caller identity.VerifiedIdentity) ([]tasks.Task, error)
	Create(ctx context.Context, caller identity.VerifiedIdentity, description, occursAt string) (tasks.Task, error)
	Delete(ctx context.Context, caller identity.VerifiedIdentity, taskID string) error
}

type Predictor interface {
	Predict(ctx context.Context, features []float64) (float64, error)
}

// Dependencies are the components the routes are served by
type Dependencies struct {
	Verifier  AssertionVerifier
	Profiles  ProfileSyncer
	Sessions  SessionIssuer
	Tasks     TaskService
	Predictor Predictor
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    Config
	verifier  AssertionVerifier
	profiles  ProfileSyncer
	sessions  SessionIssuer
	tasks     TaskService
	predictor Predictor
	nowFunc   func() time.Time
}

func New(config Config, deps Dependencies) (*Server, error) {
	if deps.Verifier == nil || deps.Profiles == nil || deps.Sessions == nil || deps.Tasks == nil || deps.Predictor == nil {
		return nil, fmt.Errorf("[Server New] all dependencies are required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    config,
		verifier:  deps.Verifier,
		profiles:  deps.Profiles,
		sessions:  deps.Sessions,
		tasks:     deps.Tasks,
		predictor: deps.Predictor,
		nowFunc:   time.Now,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	log.Info().Msgf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}
