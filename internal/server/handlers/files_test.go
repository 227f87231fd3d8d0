package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bookkeeper/pkg/api"
)

func TestFilesHandler_Get(t *testing.T) {
	fileStore := newTestFileStore(t)
	h := NewFilesHandler(testLogger(), fileStore)

	fileID, err := fileStore.Save(context.Background(), "book.pdf", "application/pdf", []byte("%PDF-1.4 content"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/files/"+fileID, nil)
	req.SetPathValue("id", fileID)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("%PDF-1.4 content"), rec.Body.Bytes())
}

func TestFilesHandler_Get_NotFound(t *testing.T) {
	h := NewFilesHandler(testLogger(), newTestFileStore(t))

	req := httptest.NewRequest(http.MethodGet, "/files/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "file not found", resp.Message)
}
