package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dom/blog-platform/internal/api/handlers"
	"github.com/dom/blog-platform/internal/domain"
)

// APIClient talks to a running blog API
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Register creates an account and returns its access token. Admin accounts
// only succeed for whitelisted emails.
func (c *APIClient) Register(email, password string, role domain.Role) (*handlers.AuthResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
		"role":     string(role),
	}

	var result handlers.AuthResponse
	if err := c.do(http.MethodPost, "/auth/register", body, "", http.StatusCreated, &result); err != nil {
		return nil, fmt.Errorf("register %s: %w", email, err)
	}
	return &result, nil
}

func (c *APIClient) Login(email, password string) (*handlers.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var result handlers.AuthResponse
	if err := c.do(http.MethodPost, "/auth/login", body, "", http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("login %s: %w", email, err)
	}
	return &result, nil
}

func (c *APIClient) CreateBlog(token, title, content string) (*domain.Blog, error) {
	body := map[string]string{
		"title":   title,
		"content": content,
		"status":  string(domain.BlogStatusPublished),
	}

	var data struct {
		Blog domain.Blog `json:"blog"`
	}
	if err := c.doData(http.MethodPost, "/blogs", body, token, http.StatusCreated, &data); err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return &data.Blog, nil
}

func (c *APIClient) GetBlog(slug string) (*domain.Blog, error) {
	var data struct {
		Blog domain.Blog `json:"blog"`
	}
	if err := c.doData(http.MethodGet, "/blogs/"+slug, nil, "", http.StatusOK, &data); err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return &data.Blog, nil
}

func (c *APIClient) CreateComment(token, blogID, content string) (*domain.Comment, error) {
	body := map[string]string{"content": content}

	var data struct {
		Comment domain.Comment `json:"comment"`
	}
	if err := c.doData(http.MethodPost, "/comments/blog/"+blogID, body, token, http.StatusCreated, &data); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &data.Comment, nil
}

func (c *APIClient) ToggleLike(token string, resourceType domain.ResourceType, resourceID string) (*handlers.ToggleLikeResponse, error) {
	body := map[string]string{"resourceType": string(resourceType)}

	var data handlers.ToggleLikeResponse
	if err := c.doData(http.MethodPost, "/likes/"+resourceID, body, token, http.StatusOK, &data); err != nil {
		return nil, fmt.Errorf("toggle like: %w", err)
	}
	return &data, nil
}

// doData unwraps the success envelope into v.
func (c *APIClient) doData(method, path string, body any, token string, want int, v any) error {
	var env envelope
	if err := c.do(method, path, body, token, want, &env); err != nil {
		return err
	}
	return json.Unmarshal(env.Data, v)
}

func (c *APIClient) do(method, path string, body any, token string, want int, v any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
