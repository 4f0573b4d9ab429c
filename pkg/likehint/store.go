// Package likehint persists which items a user believed they liked, so a
// client can render an optimistic heart before the first stats fetch. The
// hint is never authoritative.
package likehint

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "liked:"

var (
	likedValue   = []byte{1}
	unlikedValue = []byte{0}
)

// Open opens a badger database at dir, or an in-memory one when dir is empty.
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(logrus.StandardLogger())
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open like hint store: %w", err)
	}
	return db, nil
}

// Store is scoped to one user of a shared database.
type Store struct {
	db     *badger.DB
	userID int64
}

func New(db *badger.DB, userID int64) *Store {
	return &Store{db: db, userID: userID}
}

func (s *Store) key(itemID int64) []byte {
	return fmt.Appendf(nil, "%s%d:%d", keyPrefix, s.userID, itemID)
}

// Liked reports the last recorded belief. known is false when nothing was
// recorded or the store could not be read.
func (s *Store) Liked(itemID int64) (liked, known bool) {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(itemID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			liked = len(val) == 1 && val[0] == 1
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, false
	}
	if err != nil {
		logrus.Warnf("like hint read failed for item %d: %v", itemID, err)
		return false, false
	}
	return liked, true
}

func (s *Store) Set(itemID int64, liked bool) error {
	val := unlikedValue
	if liked {
		val = likedValue
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(itemID), val)
	})
}

// LikedItems lists every item currently hinted as liked.
func (s *Store) LikedItems() ([]int64, error) {
	prefix := fmt.Appendf(nil, "%s%d:", keyPrefix, s.userID)
	var ids []int64
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var id int64
			if _, err := fmt.Sscanf(string(item.Key()[len(prefix):]), "%d", &id); err != nil {
				continue
			}
			var liked bool
			if err := item.Value(func(val []byte) error {
				liked = len(val) == 1 && val[0] == 1
				return nil
			}); err != nil {
				return err
			}
			if liked {
				ids = append(ids, id)
			}
		}
		return nil
	})
	return ids, err
}
