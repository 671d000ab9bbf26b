// Package api implements the HTTP client for the authd server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sebak/authd/internal/common"
)

// Account mirrors the server's account view.
type Account struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Session holds an issued token and its validity in seconds.
type Session struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Identity is what the server reveals about the caller behind a token.
// Unlike Account it carries no profile attributes.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Client talks to the authd REST endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Register creates an account. The password is copied into the request body;
// the caller remains responsible for wiping the original slice.
func (c *Client) Register(ctx context.Context, email, fullName string, password []byte) (*Account, error) {
	body := map[string]string{
		"email":    email,
		"password": string(password),
		"fullName": fullName,
	}

	var account Account
	if err := c.do(ctx, http.MethodPost, "/api/register", "", body, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": string(password),
	}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/api/login", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Me returns the identity behind the token.
func (c *Client) Me(ctx context.Context, token string) (*Identity, error) {
	var id Identity
	if err := c.do(ctx, http.MethodGet, "/api/me", token, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// Health probes the server's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", "", nil, nil)
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.AuthScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrEmailTaken
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return invalidRequestError(eb)
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, eb.Error)
	}
}

func invalidRequestError(eb errorBody) error {
	if len(eb.Fields) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, eb.Error)
	}
	details := make([]string, 0, len(eb.Fields))
	for field, msg := range eb.Fields {
		details = append(details, field+": "+msg)
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(details, "; "))
}
