// Package accountsdb holds the in-memory AccountsDb type (spec §3) and its
// assembler (spec §4.5).
package accountsdb

import (
	"sync"
	"sync/atomic"

	"github.com/solarbank/accountsdb/internal/domainkeys"
	"github.com/solarbank/accountsdb/wire"
)

// AppendVecReader is the external "AppendVec reader" collaborator's result
// type (spec §1 out-of-scope collaborators): an opened accounts iterator
// plus the file's declared length. This module never reads through it; it
// only stores the handle.
type AppendVecReader interface {
	// Len reports the on-disk length backing this append-vec, asserted by
	// the reconstructor to equal the decoded current_len (spec §4.4 step 4).
	Len() uint64
}

// AccountStorageEntry is the in-memory per-(slot,id) storage handle from
// spec §3. Exclusively owned by one per-slot map until installed into an
// AccountsDb, at which point it becomes shared-immutable.
type AccountStorageEntry struct {
	Slot        wire.Slot
	ID          wire.AppendVecId
	Accounts    AppendVecReader
	NumAccounts uint64
}

// slotStorage is one slot's append-vec-id -> entry map, wrapped in an
// RWMutex the way the original wraps each per-slot map in a read/write lock
// once it is installed into the db (spec §5 "Shared-resource policy").
type slotStorage struct {
	mu      sync.RWMutex
	entries map[wire.AppendVecId]*AccountStorageEntry
}

func newSlotStorage(entries map[wire.AppendVecId]*AccountStorageEntry) *slotStorage {
	return &slotStorage{entries: entries}
}

// Get returns the entry for id, if present.
func (s *slotStorage) Get(id wire.AppendVecId) (*AccountStorageEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Len reports the number of append-vecs installed for this slot.
func (s *slotStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Config mirrors the caller-supplied knobs spec §4.5 step 1 references
// ("caller-supplied configuration"). See package config for the loader.
type Config struct {
	AccountSecondaryIndexes bool
	CachingEnabled          bool
	ShrinkRatio             float64
}

// AccountsDb is the in-memory accounts database this module reconstructs.
// Field names mirror domainkeys' named registries (BankHashRegistry,
// StorageRegistry) so a reader of AccountsDb and of domainkeys can match
// them up.
type AccountsDb struct {
	cfg Config

	bankHashesMu sync.RWMutex
	bankHashes   map[wire.Slot]wire.BankHashInfo

	storageMu sync.RWMutex
	storage   map[wire.Slot]*slotStorage

	nextID       atomic.Uint64
	writeVersion atomic.Uint64
}

// New creates an empty AccountsDb with the caller-supplied configuration
// (spec §4.5 step 1).
func New(cfg Config) *AccountsDb {
	return &AccountsDb{
		cfg:        cfg,
		bankHashes: make(map[wire.Slot]wire.BankHashInfo),
		storage:    make(map[wire.Slot]*slotStorage),
	}
}

// BankHashInfo returns the registered bank-hash summary for slot, if any.
// Named after domainkeys.BankHashRegistry, the registry this reads from.
func (db *AccountsDb) BankHashInfo(slot wire.Slot) (wire.BankHashInfo, bool) {
	db.bankHashesMu.RLock()
	defer db.bankHashesMu.RUnlock()
	info, ok := db.bankHashes[slot]
	return info, ok
}

// StorageEntry returns the installed entry for (slot, id), if any. Named
// after domainkeys.StorageRegistry, the registry this reads from.
func (db *AccountsDb) StorageEntry(slot wire.Slot, id wire.AppendVecId) (*AccountStorageEntry, bool) {
	db.storageMu.RLock()
	ss, ok := db.storage[slot]
	db.storageMu.RUnlock()
	if !ok {
		return nil, false
	}
	return ss.Get(id)
}

// SlotCount reports the number of slots with at least one installed
// storage entry.
func (db *AccountsDb) SlotCount() int {
	db.storageMu.RLock()
	defer db.storageMu.RUnlock()
	return len(db.storage)
}

// StorageCountForSlot reports the number of append-vecs installed for slot.
func (db *AccountsDb) StorageCountForSlot(slot wire.Slot) int {
	db.storageMu.RLock()
	ss, ok := db.storage[slot]
	db.storageMu.RUnlock()
	if !ok {
		return 0
	}
	return ss.Len()
}

// NextID returns the current value of the next-append-vec-id counter.
func (db *AccountsDb) NextID() wire.AppendVecId { return db.nextID.Load() }

// WriteVersion returns the current write-version counter.
func (db *AccountsDb) WriteVersion() wire.WriteVersion { return db.writeVersion.Load() }

// RegistrySizes reports the size of each named registry (domainkeys), handy
// for a one-line post-reconstruction log statement.
func (db *AccountsDb) RegistrySizes() map[string]int {
	db.bankHashesMu.RLock()
	bankHashes := len(db.bankHashes)
	db.bankHashesMu.RUnlock()

	return map[string]int{
		domainkeys.BankHashRegistry: bankHashes,
		domainkeys.StorageRegistry:  db.SlotCount(),
	}
}
