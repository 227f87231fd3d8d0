// Package server wires handlers, middleware and storage into an HTTP server.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/bookkeeper/internal/server/files"
	"github.com/iudanet/bookkeeper/internal/server/handlers"
	"github.com/iudanet/bookkeeper/internal/server/middleware"
	"github.com/iudanet/bookkeeper/internal/server/storage"
	"github.com/iudanet/bookkeeper/internal/server/token"
)

// Rate limit defaults
const (
	defaultRateLimit  = 100
	defaultRateWindow = time.Minute
	loginRateLimit    = 10
	loginRateWindow   = 5 * time.Minute
)

// Deps содержит зависимости HTTP сервера
type Deps struct {
	Logger  *slog.Logger
	Users   storage.UserStorage
	Books   storage.BookStorage
	Files   *files.Store
	Tokens  *token.Manager
	Version string
}

// NewRouter собирает маршруты API с цепочкой middleware
// Защищенные маршруты оборачиваются в AuthMiddleware по отдельности,
// публичные (регистрация, вход, публичное чтение) остаются открытыми
func NewRouter(deps Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(deps.Logger, deps.Users, deps.Tokens)
	booksHandler := handlers.NewBooksHandler(deps.Logger, deps.Books, deps.Files)
	favoritesHandler := handlers.NewFavoritesHandler(deps.Logger, deps.Users)
	filesHandler := handlers.NewFilesHandler(deps.Logger, deps.Files)
	healthHandler := handlers.NewHealthHandler(deps.Logger, deps.Version)

	auth := middleware.AuthMiddleware(deps.Logger, deps.Tokens, deps.Users)

	mux := http.NewServeMux()

	// Публичные маршруты
	mux.HandleFunc("POST /api/users/register", authHandler.Register)
	mux.HandleFunc("POST /api/users/login", authHandler.Login)
	mux.HandleFunc("GET /api/books/all", booksHandler.ListAll)
	mux.HandleFunc("GET /api/books/{id}", booksHandler.Get)
	mux.HandleFunc("GET /files/{id}", filesHandler.Get)
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	// Маршруты, требующие аутентификации
	mux.Handle("GET /api/books", auth(http.HandlerFunc(booksHandler.List)))
	mux.Handle("POST /api/books", auth(http.HandlerFunc(booksHandler.Create)))
	mux.Handle("PUT /api/books/{id}", auth(http.HandlerFunc(booksHandler.Update)))
	mux.Handle("DELETE /api/books/{id}", auth(http.HandlerFunc(booksHandler.Delete)))

	// Избранное: body-вариант и path-вариант с одинаковой политикой
	mux.Handle("GET /api/users/favorites", auth(http.HandlerFunc(favoritesHandler.List)))
	mux.Handle("POST /api/users/favorites/add", auth(http.HandlerFunc(favoritesHandler.AddByBody)))
	mux.Handle("POST /api/users/favorites/remove", auth(http.HandlerFunc(favoritesHandler.RemoveByBody)))
	mux.Handle("PUT /api/books/favorites/add/{bookID}", auth(http.HandlerFunc(favoritesHandler.AddByPath)))
	mux.Handle("PUT /api/books/favorites/remove/{bookID}", auth(http.HandlerFunc(favoritesHandler.RemoveByPath)))

	// Глобальная цепочка: recovery -> логирование -> rate limit
	// Более строгие лимиты на регистрацию и вход
	rateLimits := []middleware.PathRateLimit{
		{Path: "/api/users/register", Rate: loginRateLimit, Window: loginRateWindow},
		{Path: "/api/users/login", Rate: loginRateLimit, Window: loginRateWindow},
	}

	var handler http.Handler = mux
	handler = middleware.RateLimitByPathMiddleware(rateLimits, defaultRateLimit, defaultRateWindow, deps.Logger)(handler)
	handler = middleware.LoggingWithSkip(deps.Logger, []string{"/api/health"})(handler)
	handler = middleware.RecoveryMiddleware(deps.Logger)(handler)

	return handler
}
