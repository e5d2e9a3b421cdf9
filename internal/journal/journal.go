// Package journal persists the terminal outcome of every transfer.
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Record captures one finished transfer.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Filename    string `json:"filename"`
	Direction   string `json:"direction"`
	Size        int64  `json:"size"`
	Transferred int64  `json:"transferred"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	FinishedAt  int64  `json:"finished_at"` // Unix timestamp
}

// Store wraps BadgerDB for journal operations.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a BadgerDB at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %v", err)
	}
	return &Store{db: db}, nil
}

// Close closes the BadgerDB.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores a finished transfer record.
func (s *Store) Append(rec Record) error {
	key := []byte("transfer:" + rec.ID)
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// Get retrieves a record by ID.
func (s *Store) Get(id string) (Record, error) {
	key := []byte("transfer:" + id)
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, err
}

// List returns every journaled record.
func (s *Store) List() ([]Record, error) {
	var records []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("transfer:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}

// NewRecord builds a record for a transfer that just reached a terminal
// state.
func NewRecord(name, filename, direction string, size, transferred int64, status string, transferErr error) Record {
	rec := Record{
		ID:          uuid.NewString(),
		Name:        name,
		Filename:    filename,
		Direction:   direction,
		Size:        size,
		Transferred: transferred,
		Status:      status,
		FinishedAt:  time.Now().Unix(),
	}
	if transferErr != nil {
		rec.Error = transferErr.Error()
	}
	return rec
}
