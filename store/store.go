// Package store persists the light client: the decided state bundle, the
// history ledger cursor and every retained history entry.
//
// Layout:
//
//	"v"              schema version, big-endian uint64
//	"s"              RLP(Head)
//	"e" + index(8)   RLP(inter.HistoryEntry)
//
// A head without a version key was written in the pre-epoch layout and is
// upgraded when read.
package store

import (
	"errors"
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rony4d/go-lightclient/history"
	"github.com/rony4d/go-lightclient/inter"
	"github.com/rony4d/go-lightclient/inter/iblockproc"
)

// SchemaVersion is the layout written by this package.
const SchemaVersion = 1

var (
	headKey    = []byte("s")
	versionKey = []byte("v")
	entryPref  = []byte("e")
)

// ErrNotFound is returned by Load on an empty database.
var ErrNotFound = errors.New("light client state not found")

// Head is the persisted root record.
type Head struct {
	State      iblockproc.DecidedState
	FirstIndex uint64
	Len        uint64
}

type headV0 struct {
	State      iblockproc.DecidedStateV0
	FirstIndex uint64
	Len        uint64
}

// Store wraps a key-value database.
type Store struct {
	db ethdb.KeyValueStore
}

// New wraps db.
func New(db ethdb.KeyValueStore) *Store {
	return &Store{db: db}
}

// Open opens a leveldb-backed store at path.
func Open(path string, cache, handles int, readonly bool) (*Store, error) {
	db, err := leveldb.New(path, cache, handles, "lightclient/db/", readonly)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	return New(db), nil
}

func entryKey(index uint64) []byte {
	return append(append([]byte{}, entryPref...), bigendian.Uint64ToBytes(index)...)
}

// Commit writes head, the entry appended by plan and the deletions of the
// slots it evicts in a single batch. plan may be nil for head-only changes.
func (s *Store) Commit(head Head, plan *history.AppendPlan) error {
	head.State = head.State.Copy()
	batch := s.db.NewBatch()

	if plan != nil {
		b, err := rlp.EncodeToBytes(&plan.Entry)
		if err != nil {
			return err
		}
		if err := batch.Put(entryKey(plan.Index), b); err != nil {
			return err
		}
		for _, i := range plan.Evicted() {
			if err := batch.Delete(entryKey(i)); err != nil {
				return err
			}
		}
	}

	b, err := rlp.EncodeToBytes(&head)
	if err != nil {
		return err
	}
	if err := batch.Put(headKey, b); err != nil {
		return err
	}
	if err := batch.Put(versionKey, bigendian.Uint64ToBytes(SchemaVersion)); err != nil {
		return err
	}
	return batch.Write()
}

// Has reports whether a head has been written.
func (s *Store) Has() (bool, error) {
	return s.db.Has(headKey)
}

// Load reads the head and the retained history entries.
func (s *Store) Load() (Head, []inter.HistoryEntry, error) {
	raw, err := s.db.Get(headKey)
	if err != nil || raw == nil {
		return Head{}, nil, ErrNotFound
	}
	head, err := s.decodeHead(raw)
	if err != nil {
		return Head{}, nil, err
	}
	if head.FirstIndex > head.Len {
		return Head{}, nil, fmt.Errorf("corrupted head: first index %d above length %d", head.FirstIndex, head.Len)
	}

	entries := make([]inter.HistoryEntry, 0, head.Len-head.FirstIndex)
	for i := head.FirstIndex; i < head.Len; i++ {
		e, err := s.Entry(i)
		if err != nil {
			return Head{}, nil, err
		}
		entries = append(entries, e)
	}
	return head, entries, nil
}

func (s *Store) decodeHead(raw []byte) (Head, error) {
	version, _ := s.db.Get(versionKey)
	if len(version) == 0 {
		var old headV0
		if err := rlp.DecodeBytes(raw, &old); err != nil {
			return Head{}, fmt.Errorf("failed to decode legacy head: %w", err)
		}
		return Head{State: old.State.Upgrade(), FirstIndex: old.FirstIndex, Len: old.Len}, nil
	}
	if v := bigendian.BytesToUint64(version); v != SchemaVersion {
		return Head{}, fmt.Errorf("unsupported schema version %d", v)
	}
	var head Head
	if err := rlp.DecodeBytes(raw, &head); err != nil {
		return Head{}, fmt.Errorf("failed to decode head: %w", err)
	}
	return head, nil
}

// Entry reads a retained history entry.
func (s *Store) Entry(index uint64) (inter.HistoryEntry, error) {
	raw, err := s.db.Get(entryKey(index))
	if err != nil || raw == nil {
		return inter.HistoryEntry{}, fmt.Errorf("history entry %d missing", index)
	}
	var e inter.HistoryEntry
	if err := rlp.DecodeBytes(raw, &e); err != nil {
		return inter.HistoryEntry{}, fmt.Errorf("failed to decode history entry %d: %w", index, err)
	}
	return e, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
