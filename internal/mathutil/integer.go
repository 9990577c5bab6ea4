// Copyright 2017 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
//
// Package mathutil holds the small integer-overflow and limit helpers the
// invariant checks in accountsdb and snapshot/reconstruct lean on. Adapted
// from erigon-lib's common/math package, trimmed to the subset this module
// actually calls.
package mathutil

import "math/bits"

// MaxUint64 is the largest representable uint64, used to bound the reserved
// lower half of the append-vec identifier space.
const MaxUint64 = 1<<64 - 1

// SafeAdd returns x+y and reports whether the addition overflowed.
func SafeAdd(x, y uint64) (uint64, bool) {
	sum, carryOut := bits.Add64(x, y, 0)
	return sum, carryOut != 0
}
