package client

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	wishlistBucket = []byte("wishlist")
	sessionBucket  = []byte("session")
)

// Store is the client-side persistent key-value store. Wishlists and the
// cached session survive restarts; everything else is kept in memory.
type Store struct {
	db *bbolt.DB
}

// OpenStore opens (or creates) the store file at path.
func OpenStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(wishlistBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) get(bucket []byte, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucket).Get([]byte(key))
		if raw != nil {
			value = make([]byte, len(raw))
			copy(value, raw)
		}
		return nil
	})
	return value, err
}

func (s *Store) put(bucket []byte, key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), value)
	})
}

func (s *Store) delete(bucket []byte, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}

// Close closes the underlying store file.
func (s *Store) Close() error {
	return s.db.Close()
}
