// Package remote implements the HTTP client for the book upload service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client calls the upload service API. Sessions are cookie based: a
// successful Login stores the session cookie in the client's jar and
// subsequent calls carry it automatically. There is no retry or backoff; a
// failed call is reported once.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu        sync.RWMutex
	loggedIn  bool
	csrfToken string
}

// csrfTokenHeader mirrors the header the server exposes its CSRF token in.
// Login captures it and DeleteBook echoes it back.
const csrfTokenHeader = "X-CSRF-Token"

type uploadResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalPages int    `json:"total_pages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HealthStatus mirrors the /api/health payload.
type HealthStatus struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Login authenticates against the service and stores the session cookie.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", readError(resp))
	}

	c.mu.Lock()
	c.loggedIn = true
	c.mu.Unlock()

	// The login route itself is outside CSRF protection, so the token has
	// to be picked up from a protected endpoint before any mutating call.
	if err := c.refreshCSRFToken(ctx); err != nil {
		return fmt.Errorf("fetch csrf token: %w", err)
	}
	return nil
}

// refreshCSRFToken performs a safe request and stores the token the server
// exposes in its response header.
func (c *Client) refreshCSRFToken(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/me", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.mu.Lock()
	c.csrfToken = resp.Header.Get(csrfTokenHeader)
	c.mu.Unlock()
	return nil
}

// HasSession reports whether a session was established.
func (c *Client) HasSession() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loggedIn
}

// UploadBook submits the file as multipart form data (fields: pdf, title) and
// returns the server-assigned book id.
func (c *Client) UploadBook(ctx context.Context, title, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("title", title); err != nil {
		return "", fmt.Errorf("write title field: %w", err)
	}
	part, err := writer.CreateFormFile("pdf", filename)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy file payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/books/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload book: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload rejected (%d): %s", resp.StatusCode, readError(resp))
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if uploaded.ID == "" {
		return "", fmt.Errorf("upload response carried no id")
	}
	return uploaded.ID, nil
}

// DeleteBook removes a book on the server. Requires a prior Login.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/books/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.mu.RLock()
	if c.csrfToken != "" {
		req.Header.Set(csrfTokenHeader, c.csrfToken)
	}
	c.mu.RUnlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delete rejected (%d): %s", resp.StatusCode, readError(resp))
	}
	return nil
}

// Health fetches the service health probe.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	return &status, nil
}

func readError(resp *http.Response) string {
	var payload errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return resp.Status
}
