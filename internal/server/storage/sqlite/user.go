package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/bookkeeper/internal/models"
	"github.com/iudanet/bookkeeper/internal/server/storage"
)

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)

	if err != nil {
		// Проверяем на duplicate email
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return storage.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = ?
	`

	user := &models.User{}

	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE id = ?
	`

	user := &models.User{}

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// AddFavorite adds a book ID to the user's favorites set
// Уникальность пары (user_id, book_id) обеспечивается первичным ключом таблицы
func (s *Storage) AddFavorite(ctx context.Context, userID, bookID string) error {
	// Проверяем существование пользователя, чтобы отличать
	// отсутствующего пользователя от дубликата избранного
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}

	query := `
		INSERT INTO favorites (user_id, book_id, created_at)
		VALUES (?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query, userID, bookID, time.Now())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrAlreadyFavorite
		}
		return fmt.Errorf("failed to insert favorite: %w", err)
	}

	return nil
}

// RemoveFavorite removes a book ID from the user's favorites set
func (s *Storage) RemoveFavorite(ctx context.Context, userID, bookID string) error {
	query := `DELETE FROM favorites WHERE user_id = ? AND book_id = ?`

	result, err := s.db.ExecContext(ctx, query, userID, bookID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrNotFavorite
	}

	return nil
}

// ListFavoriteIDs returns the user's favorite book IDs in insertion order
func (s *Storage) ListFavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT book_id
		FROM favorites
		WHERE user_id = ?
		ORDER BY created_at, book_id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}

	return ids, nil
}

// ListFavoriteBooks returns the user's favorites resolved against the books table
// Записи избранного без существующей книги пропускаются
func (s *Storage) ListFavoriteBooks(ctx context.Context, userID string) ([]*models.Book, error) {
	query := `
		SELECT b.id, b.title, b.author, b.note, b.file_url, b.owner_id, b.last_modified
		FROM favorites f
		JOIN books b ON b.id = f.book_id
		WHERE f.user_id = ?
		ORDER BY f.created_at, f.book_id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite books: %w", err)
	}
	defer rows.Close()

	return scanBooks(rows)
}
