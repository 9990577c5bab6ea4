package snapshot

import "github.com/pkg/errors"

// ErrIncompatibleSnapshots is returned by CollapseInto when the full and
// incremental snapshots carry storages for the same slot after pruning
// (spec §4.3 rule 3, §7 "Incompatible-Snapshots").
var ErrIncompatibleSnapshots = errors.New("snapshots are incompatible: overlapping storage slots between full and incremental snapshot")
