package storage

import (
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/uhyunpark/liveboard/pkg/app/core/board"
	"github.com/uhyunpark/liveboard/pkg/app/core/orderbook"
)

// PebbleStore journals open orders so the board can be rebuilt after a restart.
type PebbleStore struct {
	mu  sync.Mutex
	db  *pebble.DB
	seq uint64 // last assigned sequence number
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	s := &PebbleStore{db: db}
	if err := s.loadSeq(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PebbleStore) Close() error { return s.db.Close() }

func (s *PebbleStore) loadSeq() error {
	iter, err := s.newOrderIter()
	if err != nil {
		return err
	}
	defer iter.Close()
	if iter.Last() {
		s.seq = orderSeq(iter.Key())
	}
	return nil
}

func (s *PebbleStore) newOrderIter() (*pebble.Iterator, error) {
	prefix := []byte(prefixOrder)
	return s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
}

// Append persists an order after every order already stored
func (s *PebbleStore) Append(o orderbook.Order) error {
	data, err := encodeOrder(o)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Set(orderKey(s.seq+1), data, pebble.Sync); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	s.seq++
	return nil
}

// Remove deletes the oldest stored order equal to o. Removing an order that
// is not stored is not an error.
func (s *PebbleStore) Remove(o orderbook.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	iter, err := s.newOrderIter()
	if err != nil {
		return err
	}
	var key []byte
	for iter.First(); iter.Valid(); iter.Next() {
		stored, err := decodeOrder(iter.Value())
		if err != nil {
			seq := orderSeq(iter.Key())
			iter.Close()
			return fmt.Errorf("order %d: %w", seq, err)
		}
		if stored.Equal(o) {
			key = append([]byte(nil), iter.Key()...)
			break
		}
	}
	if err := iter.Close(); err != nil {
		return err
	}
	if key == nil {
		return nil
	}

	if err := s.db.Delete(key, pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// Load returns every stored order in append order
func (s *PebbleStore) Load() ([]orderbook.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	iter, err := s.newOrderIter()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var orders []orderbook.Order
	for iter.First(); iter.Valid(); iter.Next() {
		o, err := decodeOrder(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", orderSeq(iter.Key()), err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

var _ board.Journal = (*PebbleStore)(nil)
