package accountsdb

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/solarbank/accountsdb/internal/mathutil"
	"github.com/solarbank/accountsdb/wire"
)

// Assemble performs spec §4.5 steps 2-9 against an already-created db (step
// 1, New, is the caller's responsibility — it owns the configuration).
//
// The background notifier is modeled with a WaitGroup rather than a channel
// join: Go has no Arc::try_unwrap, so "reclaim exclusive ownership" (step 9)
// is represented by returning control to the caller only after the
// notifier's single goroutine has observably finished, at which point db is
// once again exclusively owned by the calling goroutine. There is no
// runtime check for a stray extra reference — the type system already
// guarantees there is exactly one *AccountsDb value in play.
func Assemble(
	db *AccountsDb,
	storage map[wire.Slot]map[wire.AppendVecId]*AccountStorageEntry,
	nextID uint64,
	snapshotVersion uint64,
	snapshotSlot wire.Slot,
	hashInfo wire.BankHashInfo,
	idx IndexGenerator,
	notifier RestoreNotifier,
	filler FillerAccounts,
	genesis GenesisEpochSchedule,
	limitLoadSlotCount *int,
	verifyIndex bool,
) error {
	// Step 2: install the bank-hash entry.
	db.bankHashesMu.Lock()
	db.bankHashes[snapshotSlot] = hashInfo
	db.bankHashesMu.Unlock()

	// Step 3: wrap each per-slot map behind a shared-mutable handle and
	// extend the storage registry.
	db.storageMu.Lock()
	for slot, entries := range storage {
		db.storage[slot] = newSlotStorage(entries)
	}
	db.storageMu.Unlock()

	// Step 4: store next_id.
	db.nextID.Store(nextID)

	// Step 5: fetch-add write_version, checked for overflow (called out
	// rather than left implicit, since wrapping silently would desynchronize
	// the counter from the account updates it is meant to order).
	cur := db.writeVersion.Load()
	sum, overflowed := mathutil.SafeAdd(cur, snapshotVersion)
	if overflowed {
		raiseInvariant("assemble", "write_version overflow: %d + %d exceeds uint64 range", cur, snapshotVersion)
	}
	db.writeVersion.Store(sum)

	// Step 6: launch exactly one notifier goroutine.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		notifier.Notify(db)
	}()

	// Step 7: on the main path, drive the index generator then the filler.
	if err := idx.GenerateIndex(db, limitLoadSlotCount, verifyIndex); err != nil {
		wg.Wait()
		return errors.Wrap(err, "generate index")
	}
	if err := filler.FillAccounts(db, genesis); err != nil {
		wg.Wait()
		return errors.Wrap(err, "fill accounts")
	}

	// Step 8: join the notification worker.
	wg.Wait()

	// Step 9: ownership is reclaimed implicitly — db was never shared
	// beyond the notifier goroutine above, which has now returned.
	return nil
}
