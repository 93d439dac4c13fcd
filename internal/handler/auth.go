package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/roamio/backend/internal/auth"
	"github.com/roamio/backend/internal/domain"
	"github.com/roamio/backend/internal/middleware"
)

// loginRequest is the JSON body of POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signupRequest is the JSON body of POST /auth/signup.
// There is no admin field; signups are always regular users.
type signupRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Age      *int    `json:"age,omitempty"`
	Location *string `json:"location,omitempty"`
}

// sessionResponse is returned by login and signup: the profile plus the
// bearer token for subsequent requests.
type sessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "request body must be valid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		badRequest(w, "email and password are required")
		return
	}

	user, err := s.authn.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", domain.ErrInvalidCredentials.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	s.respondSession(w, http.StatusOK, user)
}

// Signup handles POST /auth/signup.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Email == "" || req.Password == "" {
		badRequest(w, "name, email, and password are required")
		return
	}

	user, err := s.authn.Signup(r.Context(), auth.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Location: req.Location,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "email_taken", domain.ErrEmailTaken.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	s.respondSession(w, http.StatusCreated, user)
}

// Logout handles POST /auth/logout.
// Tokens are stateless, so there is nothing to revoke server-side; the
// endpoint exists so clients have a uniform call to make, and it succeeds
// whether or not a session was active.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me. Wire it behind the auth middleware; the user is
// read from the request context.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// respondSession mints a token for user and writes the session payload.
func (s *Server) respondSession(w http.ResponseWriter, status int, user domain.User) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	respondJSON(w, status, sessionResponse{Token: token, User: user.Redacted()})
}
