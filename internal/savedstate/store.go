package savedstate

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"guidekit/internal/common/fsutil"
)

// ErrNoBundle is returned by Load when nothing was saved under a key.
var ErrNoBundle = errors.New("savedstate: no such bundle")

const bucketBundles = "bundles"

// FileName is the database file created inside the data directory.
const FileName = "savedstate.db"

// Store persists bundles keyed by screen.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the store in dir. A leading ~ is expanded.
func Open(dir string) (*Store, error) {
	dir, err := fsutil.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("savedstate: %w", err)
	}
	db, err := bolt.Open(filepath.Join(dir, FileName), 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("savedstate: open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketBundles))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("savedstate: init: %w", err)
	}
	return &Store{db: db}, nil
}

// Save stores b under key, replacing any previous bundle.
func (s *Store) Save(key string, b *Bundle) error {
	raw, err := b.MarshalJSON()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketBundles)).Put([]byte(key), raw)
	})
}

// Load returns the bundle saved under key, or ErrNoBundle.
func (s *Store) Load(key string) (*Bundle, error) {
	b := NewBundle()
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketBundles)).Get([]byte(key))
		if v == nil {
			return ErrNoBundle
		}
		return b.UnmarshalJSON(v)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes the bundle saved under key. Unknown keys are ignored.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketBundles)).Delete([]byte(key))
	})
}

// Keys lists the saved bundle keys in byte order.
func (s *Store) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketBundles)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
