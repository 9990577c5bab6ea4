// Package snapshot implements the two-source merger (spec §4.3) and the
// top-level orchestrator (spec §4.7) that drive the reconstruction core.
package snapshot

import (
	"github.com/solarbank/accountsdb/wire"
)

// CollapseInto implements spec §4.3's collapse_into: combine a full and an
// optional incremental AccountsDbFields record into one, under the defined
// conflict rules.
//
// The pinned boundary behavior from spec §8 holds here unmodified: when the
// incremental snapshot contributes no storages after pruning (every one of
// its slots is <= the full snapshot's slot), the result still adopts the
// incremental's write_version, snapshot_slot and bank_hash_info. This reads
// oddly but is the observed, specified behavior — see DESIGN.md's Open
// Question entry.
func CollapseInto[E wire.SerializableAccountStorageEntry](f wire.SnapshotAccountsDbFields[E]) (wire.AccountsDbFields[E], error) {
	if f.Incremental == nil {
		return f.Full, nil
	}

	incr := *f.Incremental
	fullSlot := f.Full.SnapshotSlot

	pruned := make(map[wire.Slot][]E, len(incr.Storages))
	for slot, entries := range incr.Storages {
		if slot <= fullSlot {
			continue
		}
		pruned[slot] = entries
	}

	for slot := range pruned {
		if _, overlap := f.Full.Storages[slot]; overlap {
			return wire.AccountsDbFields[E]{}, ErrIncompatibleSnapshots
		}
	}

	combined := make(map[wire.Slot][]E, len(f.Full.Storages)+len(pruned))
	for slot, entries := range f.Full.Storages {
		combined[slot] = entries
	}
	for slot, entries := range pruned {
		combined[slot] = entries
	}

	return wire.AccountsDbFields[E]{
		Storages:     combined,
		WriteVersion: incr.WriteVersion,
		SnapshotSlot: incr.SnapshotSlot,
		BankHashInfo: incr.BankHashInfo,
	}, nil
}
