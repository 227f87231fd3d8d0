package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/bookkeeper/internal/models"
	"github.com/iudanet/bookkeeper/internal/server/storage"
)

// CreateBook creates a new book in the storage
func (s *Storage) CreateBook(ctx context.Context, book *models.Book) error {
	query := `
		INSERT INTO books (id, title, author, note, file_url, owner_id, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Note,
		book.FileURL,
		book.OwnerID,
		book.LastModified,
	)

	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

// GetBookByID retrieves a single book by ID
func (s *Storage) GetBookByID(ctx context.Context, bookID string) (*models.Book, error) {
	query := `
		SELECT id, title, author, note, file_url, owner_id, last_modified
		FROM books
		WHERE id = ?
	`

	book := &models.Book{}

	err := s.db.QueryRowContext(ctx, query, bookID).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Note,
		&book.FileURL,
		&book.OwnerID,
		&book.LastModified,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return book, nil
}

// UpdateBook updates mutable fields of a book
// Владелец не изменяется после создания
func (s *Storage) UpdateBook(ctx context.Context, book *models.Book) error {
	query := `
		UPDATE books
		SET title = ?, author = ?, note = ?, last_modified = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		book.Title,
		book.Author,
		book.Note,
		book.LastModified,
		book.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrBookNotFound
	}

	return nil
}

// DeleteBook deletes book by ID
func (s *Storage) DeleteBook(ctx context.Context, bookID string) error {
	query := `DELETE FROM books WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, bookID)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrBookNotFound
	}

	return nil
}

// ListBooksByOwner retrieves all books owned by the given user
// Фильтр по владельцу выполняется в самом запросе
func (s *Storage) ListBooksByOwner(ctx context.Context, ownerID string) ([]*models.Book, error) {
	query := `
		SELECT id, title, author, note, file_url, owner_id, last_modified
		FROM books
		WHERE owner_id = ?
		ORDER BY last_modified DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	return scanBooks(rows)
}

// ListAllBooks retrieves all books regardless of owner
func (s *Storage) ListAllBooks(ctx context.Context) ([]*models.Book, error) {
	query := `
		SELECT id, title, author, note, file_url, owner_id, last_modified
		FROM books
		ORDER BY last_modified DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	return scanBooks(rows)
}

// scanBooks читает строки результата в слайс книг
func scanBooks(rows *sql.Rows) ([]*models.Book, error) {
	books := []*models.Book{}

	for rows.Next() {
		book := &models.Book{}
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Note,
			&book.FileURL,
			&book.OwnerID,
			&book.LastModified,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}
