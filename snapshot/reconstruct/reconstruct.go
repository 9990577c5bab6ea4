// Package reconstruct implements the parallel storage reconstructor (spec
// §4.4): one worker per slot, remapping append-vec identifiers into a
// single global monotone sequence and renaming on collision.
package reconstruct

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/solarbank/accountsdb/accountsdb"
	"github.com/solarbank/accountsdb/internal/mathutil"
	"github.com/solarbank/accountsdb/wire"
)

// FileName is the canonical on-disk name for an append-vec belonging to
// (slot, id). Both producers and this reconstructor must agree on this
// format; it is also the key space of UnpackedAppendVecMap.
func FileName(slot wire.Slot, id wire.AppendVecId) string {
	return fmt.Sprintf("%d.%d", slot, id)
}

// UnpackedAppendVecMap is the read-only filename -> absolute-path map
// staged by the caller before reconstruction begins (spec §6 filesystem
// contract). Shared read-only across every worker; never mutated here.
type UnpackedAppendVecMap map[string]string

// AppendVecOpener is the external "AppendVec reader" collaborator: given a
// path and the expected length, it opens the file, asserts the length
// matches, and returns an accounts iterator plus the account count.
type AppendVecOpener func(path string, wantLen uint64) (accountsdb.AppendVecReader, uint64, error)

// Renamer performs the filesystem rename. A seam so tests can substitute an
// in-memory double instead of touching a real filesystem.
type Renamer func(oldPath, newPath string) error

// Stat reports whether a path currently exists. Another filesystem seam.
type Stat func(path string) bool

// Result is the reconstructor's output: one map per slot, the final value
// of next_id, and the total number of collisions observed (telemetry
// only).
type Result struct {
	Storage    map[wire.Slot]map[wire.AppendVecId]*accountsdb.AccountStorageEntry
	NextID     uint64
	Collisions uint64
}

// Options bundles the external collaborators and filesystem seams the
// reconstructor needs.
type Options struct {
	Unpacked UnpackedAppendVecMap
	Open     AppendVecOpener
	Rename   Renamer
	Exists   Stat
	// Parallelism caps the number of concurrently running slot workers.
	// Zero means "let errgroup pick its default" (unbounded).
	Parallelism int
}

// Run reconstructs storage for every slot in combined, assigning fresh
// globally-unique identifiers and renaming colliding files in place (spec
// §4.4). The first error from any worker aborts the remaining workers and
// is returned; worker-local results for slots that had already finished
// are discarded.
func Run[E wire.SerializableAccountStorageEntry](ctx context.Context, combined map[wire.Slot][]E, opts Options) (Result, error) {
	var nextID atomic.Uint64
	var collisions atomic.Uint64

	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallelism > 0 {
		g.SetLimit(opts.Parallelism)
	}

	var mu sync.Mutex
	out := make(map[wire.Slot]map[wire.AppendVecId]*accountsdb.AccountStorageEntry, len(combined))

	for slot, entries := range combined {
		slot, entries := slot, entries
		g.Go(func() error {
			slotMap, err := reconstructSlot(gctx, slot, entries, opts, &nextID, &collisions)
			if err != nil {
				return err
			}
			if len(slotMap) == 0 {
				// A non-root slot may legitimately serialize with no live
				// storages (spec §4.4 post-pass); drop it silently.
				return nil
			}
			mu.Lock()
			out[slot] = slotMap
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	if len(out) == 0 {
		accountsdb.RaiseEmptyReconstruction()
	}

	n := nextID.Load()
	max := n - 1
	if max > mathutil.MaxUint64/2 {
		accountsdb.RaiseIdentifierOverflow(max)
	}

	return Result{Storage: out, NextID: n, Collisions: collisions.Load()}, nil
}

// reconstructSlot processes one slot's storage entries in decoded order
// (spec §4.4 ordering guarantees: within a slot, deterministic; across
// slots, unspecified).
func reconstructSlot[E wire.SerializableAccountStorageEntry](
	ctx context.Context,
	slot wire.Slot,
	entries []E,
	opts Options,
	nextID, collisions *atomic.Uint64,
) (map[wire.AppendVecId]*accountsdb.AccountStorageEntry, error) {
	result := make(map[wire.AppendVecId]*accountsdb.AccountStorageEntry, len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		originalName := FileName(slot, entry.ID())
		originalPath, ok := opts.Unpacked[originalName]
		if !ok {
			return nil, errors.Wrapf(ErrMissingFile, "slot %d id %d (%s)", slot, entry.ID(), originalName)
		}

		candidate := allocateID(entry.ID(), opts, nextID, collisions, slot)

		finalPath := originalPath
		if candidate != entry.ID() {
			newPath := filepath.Join(filepath.Dir(originalPath), FileName(slot, candidate))
			if err := opts.Rename(originalPath, newPath); err != nil {
				return nil, errors.Wrapf(err, "rename %s to %s", originalPath, newPath)
			}
			finalPath = newPath
		}

		reader, numAccounts, err := opts.Open(finalPath, entry.CurrentLen())
		if err != nil {
			return nil, errors.Wrapf(err, "open append-vec %s", finalPath)
		}
		if diskLen := reader.Len(); diskLen != entry.CurrentLen() {
			return nil, errors.Errorf("append-vec %s length mismatch: disk=%d decoded=%d", finalPath, diskLen, entry.CurrentLen())
		}

		result[candidate] = &accountsdb.AccountStorageEntry{
			Slot:        slot,
			ID:          candidate,
			Accounts:    reader,
			NumAccounts: numAccounts,
		}
	}

	return result, nil
}

// allocateID runs the fetch-add-and-probe loop from spec §4.4 step 2:
// identity-match short-circuit first, filesystem probe second.
func allocateID(originalID wire.AppendVecId, opts Options, nextID, collisions *atomic.Uint64, slot wire.Slot) wire.AppendVecId {
	for {
		// fetch_add semantics: the pre-increment value is the allocated id,
		// matching the original's next_id.fetch_add(1, Ordering::Relaxed).
		candidate := nextID.Add(1) - 1
		if candidate == originalID {
			return candidate
		}
		candidatePath := filepath.Join(candidateDir(opts, slot, originalID), FileName(slot, candidate))
		if !opts.Exists(candidatePath) {
			return candidate
		}
		collisions.Add(1)
	}
}

func candidateDir(opts Options, slot wire.Slot, originalID wire.AppendVecId) string {
	if p, ok := opts.Unpacked[FileName(slot, originalID)]; ok {
		return filepath.Dir(p)
	}
	return "."
}
