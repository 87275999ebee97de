// Package store provides optional bbolt persistence for scan results, so
// downstream consumers can look up a file's structural record without
// re-parsing the tree.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	bolt "go.etcd.io/bbolt"

	"github.com/srcmap/srcmap/pkg/index"
)

// ErrNotFound is returned when a record or run does not exist.
var ErrNotFound = errors.New("not found")

// Bucket names.
var (
	BucketRecords = []byte("records")
	BucketRuns    = []byte("runs")
	BucketMeta    = []byte("meta")
)

// metaLatestRun is the meta key holding the most recent run ID.
const metaLatestRun = "latest_run"

// Run describes one persisted scan.
type Run struct {
	ID        string    `json:"id"` // ULID, sortable by creation time
	Root      string    `json:"root"`
	Files     int       `json:"files"`
	Errors    int       `json:"errors"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is a bbolt-backed record store.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{BucketRecords, BucketRuns, BucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveIndex replaces the stored records with the given index and records a
// new run. Records are keyed by file path; previous records are dropped so
// the store always mirrors the latest scan.
func (s *Store) SaveIndex(root string, idx index.RepoIndex) (*Run, error) {
	run := &Run{
		ID:        ulid.Make().String(),
		Root:      root,
		Files:     len(idx),
		Errors:    idx.ErrorCount(),
		CreatedAt: time.Now().UTC(),
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(BucketRecords); err != nil {
			return err
		}
		records, err := tx.CreateBucket(BucketRecords)
		if err != nil {
			return err
		}
		for path, record := range idx {
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("encoding record %s: %w", path, err)
			}
			if err := records.Put([]byte(path), data); err != nil {
				return err
			}
		}

		runs := tx.Bucket(BucketRuns)
		runData, err := json.Marshal(run)
		if err != nil {
			return err
		}
		if err := runs.Put([]byte(run.ID), runData); err != nil {
			return err
		}

		return tx.Bucket(BucketMeta).Put([]byte(metaLatestRun), []byte(run.ID))
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Record returns the stored record for a file path.
func (s *Store) Record(path string) (*index.FileRecord, error) {
	var record index.FileRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(BucketRecords).Get([]byte(path))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &record)
	})
	if err != nil {
		return nil, err
	}
	record.Path = path
	return &record, nil
}

// Paths returns every stored record path in key order.
func (s *Store) Paths() ([]string, error) {
	var paths []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketRecords).ForEach(func(k, _ []byte) error {
			paths = append(paths, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// LatestRun returns the most recent run, or ErrNotFound if no scan has
// been persisted yet.
func (s *Store) LatestRun() (*Run, error) {
	var run Run
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(BucketMeta).Get([]byte(metaLatestRun))
		if id == nil {
			return ErrNotFound
		}
		data := tx.Bucket(BucketRuns).Get(id)
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &run)
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Runs returns every persisted run, oldest first (ULID keys sort by
// creation time).
func (s *Store) Runs() ([]*Run, error) {
	var runs []*Run
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(BucketRuns).ForEach(func(_, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			runs = append(runs, &run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}
