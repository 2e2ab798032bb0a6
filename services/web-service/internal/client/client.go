// Package client is the web frontend's client for the blog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/strive-blog/shared/utilities"
)

// APIError is a non-2xx answer of the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api responded %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status of an *APIError, or 0 for other errors.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API served at baseURL, e.g. http://localhost:5001.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListBlogPosts(ctx context.Context, title string) ([]BlogPost, error) {
	path := "/blogPosts"
	if title != "" {
		path += "?" + url.Values{"title": {title}}.Encode()
	}

	var posts []BlogPost
	err := c.doJSON(ctx, http.MethodGet, path, "", nil, &posts)
	return posts, err
}

func (c *Client) GetBlogPost(ctx context.Context, id string) (*BlogPost, error) {
	var post BlogPost
	if err := c.doJSON(ctx, http.MethodGet, "/blogPosts/"+url.PathEscape(id), "", nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreateBlogPost publishes a post as a multipart form so the cover can travel with it.
func (c *Client) CreateBlogPost(ctx context.Context, token string, post NewBlogPost) (*BlogPost, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := map[string]string{
		"title":           post.Title,
		"category":        post.Category,
		"content":         post.Content,
		"readTime[value]": strconv.Itoa(post.ReadTimeValue),
		"readTime[unit]":  post.ReadTimeUnit,
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, err
		}
	}

	if post.Cover != nil {
		part, err := form.CreateFormFile("cover", post.Cover.Filename)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(post.Cover.Content); err != nil {
			return nil, err
		}
	}

	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/blogPosts", token, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var created BlogPost
	if err := c.do(req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) AddComment(ctx context.Context, token, postID string, comment NewComment) (*Comment, error) {
	var created Comment
	path := "/blogPosts/" + url.PathEscape(postID) + "/comments"
	if err := c.doJSON(ctx, http.MethodPost, path, token, comment, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CreateAuthor(ctx context.Context, author NewAuthor) (*Author, error) {
	var created Author
	if err := c.doJSON(ctx, http.MethodPost, "/authors", "", author, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetAuthor(ctx context.Context, id string) (*Author, error) {
	var author Author
	if err := c.doJSON(ctx, http.MethodGet, "/authors/"+url.PathEscape(id), "", nil, &author); err != nil {
		return nil, err
	}
	return &author, nil
}

func (c *Client) ListAuthorBlogPosts(ctx context.Context, id string) ([]BlogPost, error) {
	var posts []BlogPost
	err := c.doJSON(ctx, http.MethodGet, "/authors/"+url.PathEscape(id)+"/blogPosts", "", nil, &posts)
	return posts, err
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Me returns the author the token was issued to.
func (c *Client) Me(ctx context.Context, token string) (*Author, error) {
	var author Author
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", token, nil, &author); err != nil {
		return nil, err
	}
	return &author, nil
}

// RequestPasswordReset asks the API to mail a reset link to email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/auth/password-reset", "", body, nil)
}

func (c *Client) ValidatePasswordResetToken(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodGet, "/auth/password-reset/"+url.PathEscape(token), "", nil, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/auth/password-reset/confirm", "", body, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

// newRequest builds an API request carrying the bearer token, the incoming request id
// and the headers captured by utilities.WithForwardedHeaders.
func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id, ok := hlog.IDFromCtx(ctx); ok {
		req.Header.Set("X-Request-ID", id.String())
	}
	utilities.ApplyForwardedHeaders(ctx, req)

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var msg utilities.MessageResponse
		if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil || msg.Message == "" {
			msg.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.URL.Path, err)
	}

	return nil
}
