package storage

import (
	"context"

	"github.com/iudanet/bookkeeper/internal/models"
)

// UserStorage defines interface for user data persistence,
// including the user's favorites set
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if email is already registered
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email (case-sensitive match)
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// AddFavorite adds a book ID to the user's favorites set
	// Returns ErrAlreadyFavorite if the book is already a member,
	// ErrUserNotFound if the user doesn't exist
	AddFavorite(ctx context.Context, userID, bookID string) error

	// RemoveFavorite removes a book ID from the user's favorites set
	// Returns ErrNotFavorite if the book is not a member
	RemoveFavorite(ctx context.Context, userID, bookID string) error

	// ListFavoriteIDs returns the user's favorite book IDs in insertion order
	// Returns empty slice if the set is empty
	ListFavoriteIDs(ctx context.Context, userID string) ([]string, error)

	// ListFavoriteBooks returns the user's favorites resolved against
	// the books table, in insertion order
	ListFavoriteBooks(ctx context.Context, userID string) ([]*models.Book, error)
}
