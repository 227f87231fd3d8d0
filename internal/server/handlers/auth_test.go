package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bookkeeper/internal/crypto"
	"github.com/iudanet/bookkeeper/internal/models"
	"github.com/iudanet/bookkeeper/internal/server/storage"
	"github.com/iudanet/bookkeeper/internal/server/token"
	"github.com/iudanet/bookkeeper/pkg/api"
)

// mockUserStorage реализует storage.UserStorage в памяти для тестов handlers
type mockUserStorage struct {
	usersByID    map[string]*models.User
	usersByEmail map[string]*models.User
	favorites    map[string][]string
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{
		usersByID:    make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
		favorites:    make(map[string][]string),
	}
}

func (m *mockUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if _, exists := m.usersByEmail[user.Email]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user
	return nil
}

func (m *mockUserStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, exists := m.usersByEmail[email]
	if !exists {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	user, exists := m.usersByID[userID]
	if !exists {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) AddFavorite(_ context.Context, userID, bookID string) error {
	if _, exists := m.usersByID[userID]; !exists {
		return storage.ErrUserNotFound
	}
	for _, id := range m.favorites[userID] {
		if id == bookID {
			return storage.ErrAlreadyFavorite
		}
	}
	m.favorites[userID] = append(m.favorites[userID], bookID)
	return nil
}

func (m *mockUserStorage) RemoveFavorite(_ context.Context, userID, bookID string) error {
	ids := m.favorites[userID]
	for i, id := range ids {
		if id == bookID {
			m.favorites[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFavorite
}

func (m *mockUserStorage) ListFavoriteIDs(_ context.Context, userID string) ([]string, error) {
	ids := m.favorites[userID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

func (m *mockUserStorage) ListFavoriteBooks(_ context.Context, userID string) ([]*models.Book, error) {
	books := make([]*models.Book, 0, len(m.favorites[userID]))
	for _, id := range m.favorites[userID] {
		books = append(books, &models.Book{ID: id, Title: "t", Author: "a"})
	}
	return books, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokenManager(t *testing.T) *token.Manager {
	t.Helper()
	tokens, err := token.NewManager([]byte("test-secret-key"), time.Hour)
	require.NoError(t, err)
	return tokens
}

func registerBody(name, email, password string) *bytes.Reader {
	body, _ := json.Marshal(api.RegisterRequest{Name: name, Email: email, Password: password})
	return bytes.NewReader(body)
}

func TestAuthHandler_Register(t *testing.T) {
	users := newMockUserStorage()
	h := NewAuthHandler(testLogger(), users, newTestTokenManager(t))

	req := httptest.NewRequest(http.MethodPost, "/api/users/register",
		registerBody("Alice", "alice@example.com", "secret123"))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	raw := rec.Body.String()

	var resp api.UserResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Alice", resp.Name)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.False(t, resp.CreatedAt.IsZero())

	// Хеш пароля не утекает в ответ
	assert.NotContains(t, raw, "secret123")
	assert.NotContains(t, raw, "password")

	// Пользователь сохранен с bcrypt хешем, не с открытым паролем
	stored, err := users.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.True(t, crypto.CheckPassword("secret123", stored.PasswordHash))
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	tests := []struct {
		name     string
		body     io.Reader
		wantCode int
		wantMsg  string
	}{
		{
			name:     "invalid json",
			body:     bytes.NewReader([]byte("{not json")),
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid request body",
		},
		{
			name:     "empty name",
			body:     registerBody("", "bob@example.com", "secret123"),
			wantCode: http.StatusBadRequest,
			wantMsg:  "name cannot be empty",
		},
		{
			name:     "bad email",
			body:     registerBody("Bob", "not-an-email", "secret123"),
			wantCode: http.StatusBadRequest,
			wantMsg:  "email has invalid format",
		},
		{
			name:     "short password",
			body:     registerBody("Bob", "bob@example.com", "short"),
			wantCode: http.StatusBadRequest,
			wantMsg:  "password must be at least 8 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(testLogger(), newMockUserStorage(), newTestTokenManager(t))

			req := httptest.NewRequest(http.MethodPost, "/api/users/register", tt.body)
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	users := newMockUserStorage()
	h := NewAuthHandler(testLogger(), users, newTestTokenManager(t))

	req := httptest.NewRequest(http.MethodPost, "/api/users/register",
		registerBody("Alice", "alice@example.com", "secret123"))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Повторная регистрация с тем же email отклоняется
	req = httptest.NewRequest(http.MethodPost, "/api/users/register",
		registerBody("Alice Again", "alice@example.com", "secret456"))
	rec = httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "user already exists", resp.Message)
}

func TestAuthHandler_Login(t *testing.T) {
	users := newMockUserStorage()
	tokens := newTestTokenManager(t)
	h := NewAuthHandler(testLogger(), users, tokens)

	hash, err := crypto.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, users.CreateUser(context.Background(), &models.User{
		ID:           "user-1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}))

	body, _ := json.Marshal(api.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "user-1", resp.ID)
	assert.Equal(t, "Alice", resp.Name)
	assert.NotEmpty(t, resp.Token)

	// Выданный токен проходит проверку и содержит ID пользователя
	userID, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	users := newMockUserStorage()
	h := NewAuthHandler(testLogger(), users, newTestTokenManager(t))

	hash, err := crypto.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, users.CreateUser(context.Background(), &models.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		PasswordHash: hash,
	}))

	tests := []struct {
		name     string
		email    string
		password string
		wantCode int
		wantMsg  string
	}{
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "secret123",
			wantCode: http.StatusUnauthorized,
			wantMsg:  "invalid email or password",
		},
		{
			name:     "wrong password",
			email:    "alice@example.com",
			password: "wrong-password",
			wantCode: http.StatusUnauthorized,
			wantMsg:  "invalid email or password",
		},
		{
			name:     "missing fields",
			email:    "",
			password: "",
			wantCode: http.StatusBadRequest,
			wantMsg:  "email and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(api.LoginRequest{Email: tt.email, Password: tt.password})
			req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			h.Login(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			var resp api.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}
