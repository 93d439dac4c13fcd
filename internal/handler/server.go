// Package handler implements the HTTP handlers for the Roamio API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, package.go, auth.go, catalog.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roamio/backend/internal/auth"
	"github.com/roamio/backend/internal/domain"
)

// PackageServicer defines the business operations the package handlers depend
// on. Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type PackageServicer interface {
	Create(ctx context.Context, pkg domain.Package) (domain.Package, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Package, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Package, int64, error)
	Update(ctx context.Context, pkg domain.Package) (domain.Package, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CatalogServicer defines the read-only listings the catalog handlers depend on.
type CatalogServicer interface {
	ListDestinations(ctx context.Context) ([]domain.Destination, error)
	ListPlaces(ctx context.Context, destinationID uuid.UUID) ([]domain.Place, error)
}

// Authenticator defines the credential operations the auth handlers depend on.
// Satisfied by any auth.Backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.User, error)
	Signup(ctx context.Context, input auth.SignupInput) (domain.User, error)
}

// TokenIssuer mints the bearer tokens returned by login and signup.
// Satisfied by auth.TokenIssuer.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// Server holds the dependencies shared by all API endpoints.
type Server struct {
	packages PackageServicer
	catalog  CatalogServicer
	authn    Authenticator
	tokens   TokenIssuer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(packages PackageServicer, catalog CatalogServicer, authn Authenticator, tokens TokenIssuer) *Server {
	return &Server{packages: packages, catalog: catalog, authn: authn, tokens: tokens}
}

// Routes mounts every endpoint on a fresh chi router. requireAuth and
// requireAdmin guard the package mutation endpoints; pass the middlewares
// built in main so the handler package stays free of token plumbing.
func (s *Server) Routes(requireAuth, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Post("/auth/login", s.Login)
	r.Post("/auth/signup", s.Signup)
	r.Post("/auth/logout", s.Logout)
	r.With(requireAuth).Get("/auth/me", s.Me)

	r.Get("/destinations", s.ListDestinations)
	r.Get("/destinations/{destinationID}/places", s.ListPlaces)

	r.Get("/packages", s.ListPackages)
	r.Get("/packages/{packageID}", s.GetPackage)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Post("/packages", s.CreatePackage)
		r.Put("/packages/{packageID}", s.UpdatePackage)
		r.Delete("/packages/{packageID}", s.DeletePackage)
	})

	return r
}
