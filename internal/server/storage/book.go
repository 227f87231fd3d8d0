package storage

import (
	"context"

	"github.com/iudanet/bookkeeper/internal/models"
)

// BookStorage defines interface for book data persistence
type BookStorage interface {
	// CreateBook creates a new book in the storage
	CreateBook(ctx context.Context, book *models.Book) error

	// GetBookByID retrieves a single book by ID
	// Returns ErrBookNotFound if book doesn't exist
	GetBookByID(ctx context.Context, bookID string) (*models.Book, error)

	// UpdateBook updates title, author, note and last_modified of a book
	// Owner is never changed. Returns ErrBookNotFound if book doesn't exist
	UpdateBook(ctx context.Context, book *models.Book) error

	// DeleteBook deletes book by ID
	// Returns ErrBookNotFound if book doesn't exist
	DeleteBook(ctx context.Context, bookID string) error

	// ListBooksByOwner retrieves all books owned by the given user
	// The ownership filter is applied in the query itself
	ListBooksByOwner(ctx context.Context, ownerID string) ([]*models.Book, error)

	// ListAllBooks retrieves all books regardless of owner (public listing)
	ListAllBooks(ctx context.Context) ([]*models.Book, error)
}
