// Package remote implements progress.Store against a pennywise server, so
// the TUI can play on a shared profile with the same engine and aggregator
// it uses locally.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/pennywise/internal/progress"
)

// ErrUnauthorized is returned when the server rejects the token.
var ErrUnauthorized = errors.New("remote: unauthorized")

// APIError is a non-2xx response that does not map to a progress sentinel.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote: %d %s: %s", e.Status, e.Code, e.Message)
}

// TokenSource returns the bearer token that authenticates userID. The
// server derives the user from the token, not from the request.
type TokenSource func(userID string) (string, error)

// StaticToken is a TokenSource for a single-user token.
func StaticToken(token string) TokenSource {
	return func(string) (string, error) { return token, nil }
}

// Client talks to the progress API.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// New returns a client for baseURL.
func New(baseURL string, tokens TokenSource, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote: invalid server URL %q", baseURL)
	}
	if tokens == nil {
		return nil, errors.New("remote: token source is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) GetUserProgress(ctx context.Context, userID string) (*progress.UserProgress, error) {
	var p progress.UserProgress
	if err := c.do(ctx, userID, http.MethodGet, "/api/progress?create=false", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpsertUserProgress(ctx context.Context, userID string, patch progress.Patch) (*progress.UserProgress, error) {
	var p progress.UserProgress
	if err := c.do(ctx, userID, http.MethodPut, "/api/progress", patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListLessonProgress(ctx context.Context, userID string) ([]progress.LessonProgress, error) {
	var list []progress.LessonProgress
	if err := c.do(ctx, userID, http.MethodGet, "/api/progress/lessons", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type lessonRequest struct {
	LessonID    string     `json:"lessonId"`
	Completed   bool       `json:"completed"`
	Accuracy    int        `json:"accuracy"`
	XPEarned    int        `json:"xpEarned"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (c *Client) UpsertLessonProgress(ctx context.Context, userID, lessonID string, rec progress.LessonRecord) (*progress.LessonProgress, error) {
	body := lessonRequest{
		LessonID:    lessonID,
		Completed:   rec.Completed,
		Accuracy:    rec.Accuracy,
		XPEarned:    rec.XPEarned,
		CompletedAt: rec.CompletedAt,
	}
	var lp progress.LessonProgress
	if err := c.do(ctx, userID, http.MethodPost, "/api/progress/lessons", body, &lp); err != nil {
		return nil, err
	}
	return &lp, nil
}

// ResetUser wipes the token owner's progress on the server.
func (c *Client) ResetUser(ctx context.Context, userID string) error {
	return c.do(ctx, userID, http.MethodDelete, "/api/progress", nil, nil)
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, userID, method, path string, in, out any) error {
	token, err := c.tokens(userID)
	if err != nil {
		return fmt.Errorf("remote: token for %q: %w", userID, err)
	}
	if token == "" {
		return ErrUnauthorized
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError maps the server's error envelope back to package sentinels.
func decodeError(resp *http.Response) error {
	var env errorEnvelope
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&env)

	switch {
	case resp.StatusCode == http.StatusNotFound && env.Error.Code == "not_found":
		return progress.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return progress.ErrVersionConflict
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusBadRequest && strings.Contains(env.Error.Message, progress.ErrInvalidPatch.Error()):
		return fmt.Errorf("%w: %s", progress.ErrInvalidPatch, env.Error.Message)
	}
	return &APIError{Status: resp.StatusCode, Code: env.Error.Code, Message: env.Error.Message}
}
