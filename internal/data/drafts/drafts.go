// Package drafts persists autosave snapshots of in-progress documents in a
// local bbolt database, keyed by display filename. A crashed or interrupted
// session can offer the draft for recovery on the next start.
package drafts

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrNotFound is returned when no draft exists for a key.
var ErrNotFound = errors.New("draft not found")

const bucketDrafts = "drafts"

// UntitledKey is the store key for documents that have no filename yet.
const UntitledKey = "untitled"

// Draft is one autosaved document.
type Draft struct {
	Key      string    `json:"key"`
	Filename string    `json:"filename"`
	Text     string    `json:"text"`
	SavedAt  time.Time `json:"saved_at"`
}

// Store is a bbolt-backed draft store.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the draft database under dataDir.
func Open(dataDir string) (*Store, error) {
	path := filepath.Join(dataDir, "drafts.db")
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open draft store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDrafts))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize draft store: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key normalizes a display filename into a store key.
func Key(filename string) string {
	if filename == "" {
		return UntitledKey
	}
	return filename
}

// Put saves or replaces the draft for a filename.
func (s *Store) Put(filename, text string) error {
	d := Draft{
		Key:      Key(filename),
		Filename: filename,
		Text:     text,
		SavedAt:  time.Now(),
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft %q: %w", d.Key, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDrafts)).Put([]byte(d.Key), data)
	})
	if err != nil {
		return fmt.Errorf("put draft %q: %w", d.Key, err)
	}
	return nil
}

// Get returns the draft for a filename. Returns ErrNotFound when no draft
// exists; a missing draft is an expected state, not a failure.
func (s *Store) Get(filename string) (Draft, error) {
	key := Key(filename)

	var d Draft
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketDrafts)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &d)
	})
	if errors.Is(err, ErrNotFound) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("get draft %q: %w", key, err)
	}
	return d, nil
}

// List returns all drafts, newest first.
func (s *Store) List() ([]Draft, error) {
	var out []Draft
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDrafts)).ForEach(func(_, v []byte) error {
			var d Draft
			if err := json.Unmarshal(v, &d); err != nil {
				return err
			}
			out = append(out, d)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

// Delete removes the draft for a filename. Returns ErrNotFound when no
// draft exists.
func (s *Store) Delete(filename string) error {
	key := Key(filename)

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDrafts))
		if b.Get([]byte(key)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(key))
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete draft %q: %w", key, err)
	}
	return nil
}

// Clear removes every draft.
func (s *Store) Clear() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketDrafts)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketDrafts))
		return err
	})
	if err != nil {
		return fmt.Errorf("clear drafts: %w", err)
	}
	return nil
}
