package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/bookkeeper/internal/server/files"
)

// FilesHandler отдает загруженные файлы книг
type FilesHandler struct {
	logger *slog.Logger
	files  *files.Store
}

// NewFilesHandler создает новый handler для файлов
func NewFilesHandler(logger *slog.Logger, fileStore *files.Store) *FilesHandler {
	return &FilesHandler{
		logger: logger,
		files:  fileStore,
	}
}

// Get обрабатывает GET /files/{id}
// Публичная отдача загруженного файла с сохраненным content type
func (h *FilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fileID := r.PathValue("id")

	data, meta, err := h.files.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, files.ErrFileNotFound) {
			sendError(h.logger, w, "file not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get file", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write file response", slog.Any("error", err))
	}
}
