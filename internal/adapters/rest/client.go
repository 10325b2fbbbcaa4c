// Package rest implements the EventEase API ports over HTTP.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"eventease/internal/domain"
)

// TokenSource supplies the current bearer credential, or "" when signed out.
type TokenSource func() string

// Client calls the EventEase API. It implements domain.AuthAPI,
// domain.EventAPI and domain.RegistrationAPI.
type Client struct {
	baseURL string
	client  *http.Client
	token   TokenSource
}

// NewClient returns a client for the API at baseURL. The token source may be
// nil for anonymous use.
func NewClient(baseURL string, client *http.Client, token TokenSource) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		token:   token,
	}
}

var (
	_ domain.AuthAPI         = (*Client)(nil)
	_ domain.EventAPI        = (*Client)(nil)
	_ domain.RegistrationAPI = (*Client)(nil)
)

func (c *Client) SignUp(ctx context.Context, profile domain.SignupProfile) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/signup", profile, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SignIn(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/signin", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context) ([]*domain.Event, error) {
	var out []*domain.Event
	if err := c.do(ctx, http.MethodGet, "/events", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*domain.Event, error) {
	var out domain.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	var out domain.Event
	if err := c.do(ctx, http.MethodPost, "/events", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, draft domain.EventDraft) (*domain.Event, error) {
	var out domain.Event
	if err := c.do(ctx, http.MethodPut, "/events/"+id, draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+id, nil, nil)
}

func (c *Client) Participants(ctx context.Context, id string) ([]*domain.Registration, error) {
	var out []*domain.Registration
	if err := c.do(ctx, http.MethodGet, "/events/"+id+"/participants", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Mine(ctx context.Context) ([]*domain.Registration, error) {
	var out []*domain.Registration
	if err := c.do(ctx, http.MethodGet, "/registrations/me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, reg *domain.Registration) (*domain.Registration, error) {
	var out domain.Registration
	if err := c.do(ctx, http.MethodPost, "/registrations", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.RemoteError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError maps a non-2xx response onto the client error taxonomy. Any
// unauthorized or forbidden response is an authentication rejection and must
// reach the session manager, not just a local notice.
func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrAuthRejected
	case http.StatusNotFound:
		return domain.ErrNotFound
	}

	detail := struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}{}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&detail)
	msg := detail.Detail
	if msg == "" {
		msg = detail.Message
	}
	return &domain.RemoteError{Status: resp.StatusCode, Detail: msg}
}
