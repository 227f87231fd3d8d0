package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/bookkeeper/internal/server/middleware"
	"github.com/iudanet/bookkeeper/internal/server/storage"
	"github.com/iudanet/bookkeeper/internal/validation"
	"github.com/iudanet/bookkeeper/pkg/api"
)

// FavoritesHandler обрабатывает запросы набора избранного
// Политика дубликатов: повторное добавление отклоняется с ошибкой,
// состояние набора при этом не меняется
type FavoritesHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
}

// NewFavoritesHandler создает новый handler для избранного
func NewFavoritesHandler(logger *slog.Logger, users storage.UserStorage) *FavoritesHandler {
	return &FavoritesHandler{
		logger: logger,
		users:  users,
	}
}

// List обрабатывает GET /api/users/favorites
// Возвращает избранное пользователя, развернутое в записи книг
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "authentication required", http.StatusUnauthorized)
		return
	}

	books, err := h.users.ListFavoriteBooks(ctx, principal.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list favorites", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toBookResponses(books), http.StatusOK)
}

// AddByBody обрабатывает POST /api/users/favorites/add
// Body-вариант: ID книги передается в JSON теле {"book_id": ...}
func (h *FavoritesHandler) AddByBody(w http.ResponseWriter, r *http.Request) {
	var req api.FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.add(w, r, req.BookID)
}

// AddByPath обрабатывает PUT /api/books/favorites/add/{bookID}
// Path-вариант: ID книги передается в пути
func (h *FavoritesHandler) AddByPath(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, r.PathValue("bookID"))
}

// RemoveByBody обрабатывает POST /api/users/favorites/remove
func (h *FavoritesHandler) RemoveByBody(w http.ResponseWriter, r *http.Request) {
	var req api.FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.remove(w, r, req.BookID)
}

// RemoveByPath обрабатывает PUT /api/books/favorites/remove/{bookID}
func (h *FavoritesHandler) RemoveByPath(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, r.PathValue("bookID"))
}

// add добавляет книгу в избранное пользователя
// Формат ID проверяется независимо от существования книги;
// членство в избранном не требует владения книгой
func (h *FavoritesHandler) add(w http.ResponseWriter, r *http.Request, bookID string) {
	ctx := r.Context()

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := validation.ValidateBookID(bookID); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.users.AddFavorite(ctx, principal.ID, bookID); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyFavorite):
			sendError(h.logger, w, "book already in favorites", http.StatusBadRequest)
		case errors.Is(err, storage.ErrUserNotFound):
			// Пользователь удален между AuthGate и этой операцией
			sendError(h.logger, w, "invalid token", http.StatusUnauthorized)
		default:
			h.logger.ErrorContext(ctx, "failed to add favorite", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.respondWithSet(w, r, principal.ID, "book added to favorites")
}

// remove удаляет книгу из избранного пользователя
func (h *FavoritesHandler) remove(w http.ResponseWriter, r *http.Request, bookID string) {
	ctx := r.Context()

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.users.RemoveFavorite(ctx, principal.ID, bookID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFavorite):
			sendError(h.logger, w, "book not in favorites", http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to remove favorite", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.respondWithSet(w, r, principal.ID, "book removed from favorites")
}

// respondWithSet отправляет актуальный набор избранного после мутации
func (h *FavoritesHandler) respondWithSet(w http.ResponseWriter, r *http.Request, userID, message string) {
	ctx := r.Context()

	ids, err := h.users.ListFavoriteIDs(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list favorite ids", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.FavoritesResponse{
		Message:   message,
		Favorites: ids,
	}, http.StatusOK)
}
