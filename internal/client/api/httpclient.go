package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aloria-app/aloria-client/internal/client/models"
)

// Wire shapes of the /api/auth/* endpoints.

type registerRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type updateProfileRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type authResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	UserID    int64  `json:"userId"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
}

type userResponse struct {
	UserID    int64  `json:"userId"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
}

// errorResponse is the best-effort shape of a server error body. Servers
// differ, so both fields are optional.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// HTTPClient talks JSON to the aloria REST API. A zero timeout disables the
// per-request deadline.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Register(ctx context.Context, firstName, lastName, email, password string) (*models.Session, error) {
	body := registerRequest{FirstName: firstName, LastName: lastName, Email: email, Password: password}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", body, &resp); err != nil {
		return nil, err
	}
	return sessionFromAuthResponse(&resp), nil
}

func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*models.Session, error) {
	body := loginRequest{Identifier: identifier, Password: password}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	return sessionFromAuthResponse(&resp), nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

func (c *HTTPClient) GetProfile(ctx context.Context, token string) (*models.Profile, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", token, nil, &resp); err != nil {
		return nil, err
	}
	return &models.Profile{
		UserID:    resp.UserID,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Email:     resp.Email,
	}, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, token, firstName, lastName string) (*models.Session, error) {
	body := updateProfileRequest{FirstName: firstName, LastName: lastName}

	var resp authResponse
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", token, body, &resp); err != nil {
		return nil, err
	}
	return sessionFromAuthResponse(&resp), nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do builds and sends one request. A non-nil in is marshalled as the JSON
// body; a non-nil out receives the decoded success body. A non-empty token
// is attached as a bearer credential.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// no response received at all
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp.StatusCode, resp.Body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapStatus converts a non-2xx response into an APIError wrapping the
// matching sentinel kind. The server's message is surfaced when present.
func mapStatus(code int, body io.Reader) error {
	var kind error
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		kind = ErrUnauthorized
	case code == http.StatusNotFound:
		kind = ErrNotFound
	case code == http.StatusConflict:
		kind = ErrConflict
	case code == http.StatusBadRequest:
		kind = ErrBadRequest
	case code >= 500:
		kind = ErrServer
	default:
		kind = ErrServer
	}

	msg := ""
	if data, err := io.ReadAll(io.LimitReader(body, 4096)); err == nil && len(data) > 0 {
		var er errorResponse
		if err := json.Unmarshal(data, &er); err == nil {
			if er.Message != "" {
				msg = er.Message
			} else {
				msg = er.Error
			}
		}
	}

	return &APIError{Kind: kind, StatusCode: code, Message: msg}
}

func sessionFromAuthResponse(r *authResponse) *models.Session {
	return &models.Session{
		Token:     r.Token,
		UserID:    r.UserID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}
