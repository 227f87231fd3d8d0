package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/bookkeeper/internal/models"
	"github.com/iudanet/bookkeeper/pkg/api"
)

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой в формате {"message": ...}
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	sendJSON(logger, w, api.ErrorResponse{Message: message}, statusCode)
}

// toBookResponse конвертирует модель книги в DTO ответа
func toBookResponse(book *models.Book) api.BookResponse {
	return api.BookResponse{
		ID:           book.ID,
		Title:        book.Title,
		Author:       book.Author,
		Note:         book.Note,
		FileURL:      book.FileURL,
		OwnerID:      book.OwnerID,
		LastModified: book.LastModified,
	}
}

// toBookResponses конвертирует слайс книг в DTO ответа
// Всегда возвращает непустой слайс для корректной сериализации в []
func toBookResponses(books []*models.Book) []api.BookResponse {
	resp := make([]api.BookResponse, 0, len(books))
	for _, book := range books {
		resp = append(resp, toBookResponse(book))
	}
	return resp
}
