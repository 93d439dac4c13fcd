// Package client is a typed HTTP client for the Roamio API, used by the admin
// CLI. It mirrors the handler layer's JSON shapes and converts error bodies
// back into plain errors carrying the server's message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/roamio/backend/internal/domain"
)

// Client talks to one Roamio API server. Safe for concurrent use once the
// token is set.
type Client struct {
	base  string
	http  *http.Client
	token string
}

// New returns a Client for the API at baseURL (scheme + host, no trailing slash).
func New(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token sent with subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// session mirrors the handler's sessionResponse.
type session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login authenticates and returns the profile plus the bearer token.
// The token is also installed on the client.
func (c *Client) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	var out session
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return domain.User{}, "", err
	}
	c.token = out.Token
	return out.User, out.Token, nil
}

// SignupParams carries the signup request fields. Optional fields are
// pointers, omitted from the body when nil.
type SignupParams struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Age      *int    `json:"age,omitempty"`
	Location *string `json:"location,omitempty"`
}

// Signup registers a new account and returns the profile plus the bearer
// token. The token is also installed on the client.
func (c *Client) Signup(ctx context.Context, p SignupParams) (domain.User, string, error) {
	var out session
	if err := c.do(ctx, http.MethodPost, "/auth/signup", p, &out); err != nil {
		return domain.User{}, "", err
	}
	c.token = out.Token
	return out.User, out.Token, nil
}

// Logout calls the server's logout endpoint and clears the installed token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Me returns the profile of the current token's user.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}

// ListDestinations returns all destinations.
func (c *Client) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	var out []domain.Destination
	if err := c.do(ctx, http.MethodGet, "/destinations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPlaces returns the places for a destination. This signature satisfies
// draft.PlacesLister, so a Form can be wired straight to the API.
func (c *Client) ListPlaces(ctx context.Context, destinationID uuid.UUID) ([]domain.Place, error) {
	var out []domain.Place
	path := "/destinations/" + destinationID.String() + "/places"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// packageList mirrors the handler's packageListResponse.
type packageList struct {
	Data       []domain.Package `json:"data"`
	Pagination struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
	} `json:"pagination"`
}

// ListPackages returns one page of packages and the total count.
func (c *Client) ListPackages(ctx context.Context, page, limit int) ([]domain.Package, int64, error) {
	var out packageList
	path := "/packages?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Data, out.Pagination.Total, nil
}

// CreatePackage persists a new package. Requires an admin token.
func (c *Client) CreatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	var out domain.Package
	if err := c.do(ctx, http.MethodPost, "/packages", pkg, &out); err != nil {
		return domain.Package{}, err
	}
	return out, nil
}

// UpdatePackage overwrites an existing package. Requires an admin token.
func (c *Client) UpdatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	var out domain.Package
	path := "/packages/" + pkg.ID.String()
	if err := c.do(ctx, http.MethodPut, path, pkg, &out); err != nil {
		return domain.Package{}, err
	}
	return out, nil
}

// do performs one request/response round trip. A non-2xx response is decoded
// into the API's error envelope and returned as an error carrying its message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s %s response: %w", method, path, err)
	}
	return nil
}

// apiError extracts the message from an error envelope, falling back to the
// HTTP status text for bodies that are not the expected shape.
func apiError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("%s", envelope.Error.Message)
	}
	return fmt.Errorf("%s", http.StatusText(resp.StatusCode))
}
