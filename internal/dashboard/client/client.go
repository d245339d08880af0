// Package client implements the HTTP client for the Bugly REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/highimexy/Bugly/internal/tracker/domain"
)

const defaultTimeout = 10 * time.Second

// Client handles communication with the Bugly backend. Guarded endpoints
// take the bearer token explicitly so the credential dependency stays
// visible to callers instead of living in ambient state.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8081/api".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/login", "", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

// ListProjects fetches the full project collection with nested bugs.
func (c *Client) ListProjects(ctx context.Context, token string) ([]domain.Project, error) {
	var out []domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject fetches a single project with nested bugs. The endpoint is
// public, so no token is attached; this is the call the share reader uses.
func (c *Client) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var out domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+id, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProject submits a project with its client-minted ID.
func (c *Client) CreateProject(ctx context.Context, token string, p domain.Project) error {
	return c.do(ctx, http.MethodPost, "/projects", token, p, nil)
}

// DeleteProject removes a project and all its bugs.
func (c *Client) DeleteProject(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+id, token, nil, nil)
}

// CreateBug submits a bug report with its allocated ID.
func (c *Client) CreateBug(ctx context.Context, token string, b domain.Bug) error {
	return c.do(ctx, http.MethodPost, "/bugs", token, b, nil)
}

// DeleteBug removes one bug. Bug IDs are only unique per project, so the
// path carries both identifiers.
func (c *Client) DeleteBug(ctx context.Context, token, projectID, bugID string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+projectID+"/bugs/"+bugID, token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case code == http.StatusNotFound:
		return domain.ErrNotFound
	case code == http.StatusConflict:
		return domain.ErrDuplicateID
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
