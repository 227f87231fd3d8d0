package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/bookkeeper/internal/models"
	"github.com/iudanet/bookkeeper/internal/server/authz"
	"github.com/iudanet/bookkeeper/internal/server/files"
	"github.com/iudanet/bookkeeper/internal/server/middleware"
	"github.com/iudanet/bookkeeper/internal/server/storage"
	"github.com/iudanet/bookkeeper/internal/validation"
	"github.com/iudanet/bookkeeper/pkg/api"
)

// MaxUploadSize максимальный размер multipart запроса (32 MB)
const MaxUploadSize = 32 << 20

// BooksHandler обрабатывает CRUD запросы для книг
type BooksHandler struct {
	logger *slog.Logger
	books  storage.BookStorage
	files  *files.Store
}

// NewBooksHandler создает новый handler для книг
func NewBooksHandler(logger *slog.Logger, books storage.BookStorage, fileStore *files.Store) *BooksHandler {
	return &BooksHandler{
		logger: logger,
		books:  books,
		files:  fileStore,
	}
}

// List обрабатывает GET /api/books
// Список книг текущего пользователя: фильтр по владельцу
// выполняется в запросе к хранилищу, а не пост-фактум
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "authentication required", http.StatusUnauthorized)
		return
	}

	books, err := h.books.ListBooksByOwner(ctx, principal.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list books", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toBookResponses(books), http.StatusOK)
}

// ListAll обрабатывает GET /api/books/all
// Публичный список всех книг, аутентификация не требуется
func (h *BooksHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	books, err := h.books.ListAllBooks(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list all books", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toBookResponses(books), http.StatusOK)
}

// Get обрабатывает GET /api/books/{id}
// Публичное чтение одной книги по ID
func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bookID := r.PathValue("id")

	book, err := h.books.GetBookByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, storage.ErrBookNotFound) {
			sendError(h.logger, w, "book not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get book", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toBookResponse(book), http.StatusOK)
}

// Create обрабатывает POST /api/books
// Создание книги: multipart form с полями title, author, note (опционально)
// и файлом pdf. Владельцем становится текущий пользователь
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "authentication required", http.StatusUnauthorized)
		return
	}

	// Ограничиваем размер запроса до разбора формы
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.logger.WarnContext(ctx, "failed to parse multipart form", slog.Any("error", err))
		sendError(h.logger, w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	author := r.FormValue("author")
	note := r.FormValue("note")

	file, header, err := r.FormFile("pdf")
	if err != nil {
		sendError(h.logger, w, "title, author and pdf file are required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := validation.ValidateBookFields(title, author); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read uploaded file", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Сохраняем файл в blob store и получаем ссылку
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fileID, err := h.files.Save(ctx, header.Filename, contentType, data)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save uploaded file", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	book := &models.Book{
		ID:           uuid.New().String(),
		Title:        title,
		Author:       author,
		Note:         note,
		FileURL:      files.URLPrefix + fileID,
		OwnerID:      principal.ID,
		LastModified: time.Now(),
	}

	if err := h.books.CreateBook(ctx, book); err != nil {
		h.logger.ErrorContext(ctx, "failed to create book", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "book created",
		slog.String("book_id", book.ID),
		slog.String("owner_id", principal.ID))

	sendJSON(h.logger, w, toBookResponse(book), http.StatusCreated)
}

// Update обрабатывает PUT /api/books/{id}
// Частичное обновление title/author/note, только для владельца
// Порядок проверок: существование (404), затем владение (403)
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "authentication required", http.StatusUnauthorized)
		return
	}

	bookID := r.PathValue("id")

	var req api.UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	book, err := h.books.GetBookByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, storage.ErrBookNotFound) {
			sendError(h.logger, w, "book not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get book", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := authz.Authorize(authz.OpUpdate, book.OwnerID, principal.ID); err != nil {
		h.logger.WarnContext(ctx, "update denied: not owner",
			slog.String("book_id", bookID),
			slog.String("user_id", principal.ID))
		sendError(h.logger, w, "you do not own this book", http.StatusForbidden)
		return
	}

	// Применяем только переданные поля
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Note != nil {
		book.Note = *req.Note
	}

	if err := validation.ValidateBookFields(book.Title, book.Author); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	book.LastModified = time.Now()

	if err := h.books.UpdateBook(ctx, book); err != nil {
		if errors.Is(err, storage.ErrBookNotFound) {
			sendError(h.logger, w, "book not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update book", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "book updated", slog.String("book_id", book.ID))

	sendJSON(h.logger, w, toBookResponse(book), http.StatusOK)
}

// Delete обрабатывает DELETE /api/books/{id}
// Удаление книги, только для владельца
// Порядок проверок: существование (404), затем владение (403)
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := middleware.PrincipalFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "authentication required", http.StatusUnauthorized)
		return
	}

	bookID := r.PathValue("id")

	book, err := h.books.GetBookByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, storage.ErrBookNotFound) {
			sendError(h.logger, w, "book not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get book", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := authz.Authorize(authz.OpDelete, book.OwnerID, principal.ID); err != nil {
		h.logger.WarnContext(ctx, "delete denied: not owner",
			slog.String("book_id", bookID),
			slog.String("user_id", principal.ID))
		sendError(h.logger, w, "you do not own this book", http.StatusForbidden)
		return
	}

	if err := h.books.DeleteBook(ctx, bookID); err != nil {
		if errors.Is(err, storage.ErrBookNotFound) {
			sendError(h.logger, w, "book not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete book", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Удаляем blob best-effort: книга уже удалена, ошибку только логируем
	if fileID, found := strings.CutPrefix(book.FileURL, files.URLPrefix); found {
		if err := h.files.Delete(ctx, fileID); err != nil {
			h.logger.WarnContext(ctx, "failed to delete book file",
				slog.String("file_id", fileID),
				slog.Any("error", err))
		}
	}

	h.logger.InfoContext(ctx, "book deleted", slog.String("book_id", bookID))

	sendJSON(h.logger, w, api.MessageResponse{Message: "book deleted successfully"}, http.StatusOK)
}
