package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bookkeeper/internal/models"
	"github.com/iudanet/bookkeeper/internal/server/storage"
)

func TestCreateBook_And_GetBook(t *testing.T) {
	s := setupStorage(t)

	createTestUser(t, s, "owner-1", "alice@example.com")
	created := createTestBook(t, s, "book-1", "owner-1")

	got, err := s.GetBookByID(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Author, got.Author)
	assert.Equal(t, created.Note, got.Note)
	assert.Equal(t, created.FileURL, got.FileURL)
	assert.Equal(t, created.OwnerID, got.OwnerID)
	assert.WithinDuration(t, created.LastModified, got.LastModified, time.Second)
}

func TestCreateBook_UnknownOwner(t *testing.T) {
	s := setupStorage(t)

	// owner_id ссылается на users(id), внешние ключи включены
	err := s.CreateBook(context.Background(), &models.Book{
		ID:           "book-1",
		Title:        "T",
		Author:       "A",
		FileURL:      "/files/x",
		OwnerID:      "missing",
		LastModified: time.Now().UTC(),
	})
	assert.Error(t, err)
}

func TestGetBook_NotFound(t *testing.T) {
	s := setupStorage(t)

	_, err := s.GetBookByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrBookNotFound)
}

func TestUpdateBook(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	createTestUser(t, s, "owner-1", "alice@example.com")
	book := createTestBook(t, s, "book-1", "owner-1")

	book.Title = "Updated Title"
	book.Author = "Updated Author"
	book.Note = "updated"
	book.LastModified = time.Now().UTC().Add(time.Minute)

	require.NoError(t, s.UpdateBook(ctx, book))

	got, err := s.GetBookByID(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", got.Title)
	assert.Equal(t, "Updated Author", got.Author)
	assert.Equal(t, "updated", got.Note)
	// Владелец и ссылка на файл не меняются при обновлении
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.Equal(t, book.FileURL, got.FileURL)
}

func TestUpdateBook_NotFound(t *testing.T) {
	s := setupStorage(t)

	err := s.UpdateBook(context.Background(), &models.Book{
		ID:           "missing",
		Title:        "T",
		Author:       "A",
		LastModified: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, storage.ErrBookNotFound)
}

func TestDeleteBook(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	createTestUser(t, s, "owner-1", "alice@example.com")
	createTestBook(t, s, "book-1", "owner-1")

	require.NoError(t, s.DeleteBook(ctx, "book-1"))

	_, err := s.GetBookByID(ctx, "book-1")
	assert.ErrorIs(t, err, storage.ErrBookNotFound)

	// Повторное удаление сообщает об отсутствии
	err = s.DeleteBook(ctx, "book-1")
	assert.ErrorIs(t, err, storage.ErrBookNotFound)
}

func TestListBooksByOwner(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	createTestUser(t, s, "owner-1", "alice@example.com")
	createTestUser(t, s, "owner-2", "bob@example.com")
	createTestBook(t, s, "book-1", "owner-1")
	createTestBook(t, s, "book-2", "owner-2")
	createTestBook(t, s, "book-3", "owner-1")

	books, err := s.ListBooksByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, books, 2)
	for _, b := range books {
		assert.Equal(t, "owner-1", b.OwnerID)
	}
}

func TestListBooksByOwner_Empty(t *testing.T) {
	s := setupStorage(t)

	createTestUser(t, s, "owner-1", "alice@example.com")

	books, err := s.ListBooksByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestListAllBooks(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	createTestUser(t, s, "owner-1", "alice@example.com")
	createTestUser(t, s, "owner-2", "bob@example.com")
	createTestBook(t, s, "book-1", "owner-1")
	createTestBook(t, s, "book-2", "owner-2")

	books, err := s.ListAllBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestListAllBooks_OrderedByLastModified(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	createTestUser(t, s, "owner-1", "alice@example.com")

	base := time.Now().UTC()
	for i, id := range []string{"book-old", "book-mid", "book-new"} {
		require.NoError(t, s.CreateBook(ctx, &models.Book{
			ID:           id,
			Title:        "T",
			Author:       "A",
			FileURL:      "/files/" + id,
			OwnerID:      "owner-1",
			LastModified: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	books, err := s.ListAllBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	// Сортировка от новых к старым
	assert.Equal(t, "book-new", books[0].ID)
	assert.Equal(t, "book-old", books[2].ID)
}
