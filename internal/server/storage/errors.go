package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrBookNotFound indicates that book was not found in storage
	ErrBookNotFound = errors.New("book not found")

	// ErrAlreadyFavorite indicates that book is already in the user's favorites
	ErrAlreadyFavorite = errors.New("book already in favorites")

	// ErrNotFavorite indicates that book is not in the user's favorites
	ErrNotFavorite = errors.New("book not in favorites")
)
