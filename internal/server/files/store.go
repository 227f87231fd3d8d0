// Package files implements the blob store for uploaded book files.
// Blobs are kept in BoltDB and referenced by URL path /files/{id}.
package files

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketBlobs = []byte("blobs")
	bucketMeta  = []byte("meta")
)

// ErrFileNotFound indicates that blob was not found in the store
var ErrFileNotFound = errors.New("file not found")

// URLPrefix префикс URL, по которому отдаются загруженные файлы
const URLPrefix = "/files/"

// Meta описывает метаданные загруженного файла
type Meta struct {
	Name        string    `json:"name"`         // оригинальное имя файла
	ContentType string    `json:"content_type"` // MIME type
	Size        int64     `json:"size"`         // размер в байтах
	CreatedAt   time.Time `json:"created_at"`   // время загрузки
}

// Store represents BoltDB blob storage for uploaded files
type Store struct {
	db *bbolt.DB
}

// New creates a new BoltDB blob store
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Store, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	store := &Store{db: db}

	// Инициализируем buckets
	if err := store.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Store) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketBlobs); err != nil {
			return fmt.Errorf("failed to create blobs bucket: %w", err)
		}

		if _, err := tx.CreateBucketIfNotExists(bucketMeta); err != nil {
			return fmt.Errorf("failed to create meta bucket: %w", err)
		}

		return nil
	})
}

// Save stores blob content with metadata and returns its generated ID
// Возвращаемый ID используется как сегмент URL: /files/{id}
func (s *Store) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	id := uuid.New().String()

	meta := Meta{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   time.Now(),
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal file meta: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketBlobs).Put([]byte(id), data); err != nil {
			return fmt.Errorf("failed to put blob: %w", err)
		}
		if err := tx.Bucket(bucketMeta).Put([]byte(id), metaJSON); err != nil {
			return fmt.Errorf("failed to put meta: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

// Get retrieves blob content and metadata by ID
// Returns ErrFileNotFound if blob doesn't exist
func (s *Store) Get(ctx context.Context, id string) ([]byte, *Meta, error) {
	var data []byte
	var meta Meta

	err := s.db.View(func(tx *bbolt.Tx) error {
		blob := tx.Bucket(bucketBlobs).Get([]byte(id))
		if blob == nil {
			return ErrFileNotFound
		}

		// Копируем данные: bbolt значения валидны только внутри транзакции
		data = make([]byte, len(blob))
		copy(data, blob)

		metaJSON := tx.Bucket(bucketMeta).Get([]byte(id))
		if metaJSON == nil {
			return ErrFileNotFound
		}

		if err := json.Unmarshal(metaJSON, &meta); err != nil {
			return fmt.Errorf("failed to unmarshal file meta: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return data, &meta, nil
}

// Delete removes blob and its metadata by ID
// Returns ErrFileNotFound if blob doesn't exist
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketBlobs).Get([]byte(id)) == nil {
			return ErrFileNotFound
		}

		if err := tx.Bucket(bucketBlobs).Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete blob: %w", err)
		}
		if err := tx.Bucket(bucketMeta).Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete meta: %w", err)
		}
		return nil
	})
}
