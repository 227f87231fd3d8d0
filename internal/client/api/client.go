// Package api implements the HTTP client for the Bookkeeper server API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/iudanet/bookkeeper/pkg/api"
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken устанавливает bearer токен для последующих запросов
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/users/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет вход и возвращает токен вместе с публичными полями
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/users/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// MyBooks возвращает книги текущего пользователя
func (c *Client) MyBooks(ctx context.Context) ([]api.BookResponse, error) {
	var resp []api.BookResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/books", nil, &resp); err != nil {
		return nil, fmt.Errorf("list books request failed: %w", err)
	}
	return resp, nil
}

// AllBooks возвращает все книги (публичный список)
func (c *Client) AllBooks(ctx context.Context) ([]api.BookResponse, error) {
	var resp []api.BookResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/books/all", nil, &resp); err != nil {
		return nil, fmt.Errorf("list all books request failed: %w", err)
	}
	return resp, nil
}

// UploadBook создает книгу с загрузкой файла (multipart form)
func (c *Client) UploadBook(ctx context.Context, title, author, note, filename string, data []byte) (*api.BookResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"title":  title,
		"author": author,
		"note":   note,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}

	fw, err := mw.CreateFormFile("pdf", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/books", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setAuth(req)

	var resp api.BookResponse
	if err := c.send(req, &resp); err != nil {
		return nil, fmt.Errorf("upload book request failed: %w", err)
	}
	return &resp, nil
}

// DeleteBook удаляет книгу текущего пользователя
func (c *Client) DeleteBook(ctx context.Context, bookID string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/books/"+bookID, nil, nil); err != nil {
		return fmt.Errorf("delete book request failed: %w", err)
	}
	return nil
}

// Favorites возвращает избранные книги пользователя
func (c *Client) Favorites(ctx context.Context) ([]api.BookResponse, error) {
	var resp []api.BookResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/users/favorites", nil, &resp); err != nil {
		return nil, fmt.Errorf("favorites request failed: %w", err)
	}
	return resp, nil
}

// AddFavorite добавляет книгу в избранное
func (c *Client) AddFavorite(ctx context.Context, bookID string) (*api.FavoritesResponse, error) {
	var resp api.FavoritesResponse
	req := api.FavoriteRequest{BookID: bookID}
	if err := c.doRequest(ctx, http.MethodPost, "/api/users/favorites/add", req, &resp); err != nil {
		return nil, fmt.Errorf("add favorite request failed: %w", err)
	}
	return &resp, nil
}

// RemoveFavorite удаляет книгу из избранного
func (c *Client) RemoveFavorite(ctx context.Context, bookID string) (*api.FavoritesResponse, error) {
	var resp api.FavoritesResponse
	req := api.FavoriteRequest{BookID: bookID}
	if err := c.doRequest(ctx, http.MethodPost, "/api/users/favorites/remove", req, &resp); err != nil {
		return nil, fmt.Errorf("remove favorite request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет JSON запрос и декодирует ответ в out (если не nil)
func (c *Client) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	return c.send(req, out)
}

// setAuth добавляет заголовок Authorization если токен установлен
func (c *Client) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// send отправляет запрос и обрабатывает ответ
// Ошибки API приходят в формате {"message": ...}
func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
