package reconstruct_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solarbank/accountsdb/snapshot/reconstruct"
	"github.com/solarbank/accountsdb/testsupport"
	"github.com/solarbank/accountsdb/wire"
)

func fsExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func renamer() func(old, new string) error {
	return os.Rename
}

func TestRunSingleSlotNoCollision(t *testing.T) {
	name := reconstruct.FileName(10, 0)
	_, unpacked := testsupport.TempUnpackedDir(t, map[string]uint64{name: 64})

	combined := map[wire.Slot][]wire.StorageEntryNewer{
		10: {{Id: 0, LenField: 64}},
	}

	opts := reconstruct.Options{
		Unpacked: unpacked,
		Open:     testsupport.FakeOpener,
		Rename:   renamer(),
		Exists:   fsExists,
	}

	result, err := reconstruct.Run(context.Background(), combined, opts)
	require.NoError(t, err)
	require.Len(t, result.Storage, 1)
	slotMap := result.Storage[10]
	require.Len(t, slotMap, 1)
	// next_id starts at 0, and the allocated id is the pre-increment fetch-add
	// value, so the first allocation attempt is id 0 — which matches the
	// entry's own id, so no rename happens (identity-match short-circuit).
	entry, ok := slotMap[0]
	require.True(t, ok)
	require.Equal(t, wire.Slot(10), entry.Slot)
	require.Equal(t, uint64(0), result.Collisions)
	require.Equal(t, uint64(1), result.NextID)
}

func TestRunMissingFileErrors(t *testing.T) {
	combined := map[wire.Slot][]wire.StorageEntryNewer{
		10: {{Id: 1, LenField: 64}},
	}
	opts := reconstruct.Options{
		Unpacked: reconstruct.UnpackedAppendVecMap{},
		Open:     testsupport.FakeOpener,
		Rename:   renamer(),
		Exists:   fsExists,
	}
	_, err := reconstruct.Run(context.Background(), combined, opts)
	require.ErrorIs(t, err, reconstruct.ErrMissingFile)
}

func TestRunRenamesOnIdentifierCollision(t *testing.T) {
	// Two slots whose storage entries both carry id=1: the global next_id
	// counter (seeded at 0) assigns 0 to whichever allocation runs first —
	// which never equals that entry's original id (1), forcing a rename to
	// the canonical name for (slot, 0) — and 1 to the second, which matches
	// its entry's original id and is accepted without a rename.
	dir := t.TempDir()
	writeFile := func(name string, size int) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, make([]byte, size), 0o644))
		return p
	}

	slotA, slotB := wire.Slot(10), wire.Slot(20)
	nameA := reconstruct.FileName(slotA, 1)
	nameB := reconstruct.FileName(slotB, 1)
	pathA := writeFile(nameA, 64)
	pathB := writeFile(nameB, 128)

	unpacked := reconstruct.UnpackedAppendVecMap{nameA: pathA, nameB: pathB}

	combined := map[wire.Slot][]wire.StorageEntryNewer{
		slotA: {{Id: 1, LenField: 64}},
		slotB: {{Id: 1, LenField: 128}},
	}

	opts := reconstruct.Options{
		Unpacked:    unpacked,
		Open:        testsupport.FakeOpener,
		Rename:      renamer(),
		Exists:      fsExists,
		Parallelism: 1, // deterministic allocation order for the test
	}

	result, err := reconstruct.Run(context.Background(), combined, opts)
	require.NoError(t, err)
	require.Len(t, result.Storage, 2)

	total := 0
	for _, m := range result.Storage {
		total += len(m)
	}
	require.Equal(t, 2, total)
	require.Equal(t, uint64(2), result.NextID)
}

func TestRunDropsEmptySlotsButKeepsNonEmptyOnes(t *testing.T) {
	// A non-root slot may legitimately serialize with no live storages; the
	// post-pass drops it while the overall reconstruction still succeeds
	// because another slot remains non-empty.
	name := reconstruct.FileName(10, 1)
	_, unpacked := testsupport.TempUnpackedDir(t, map[string]uint64{name: 64})

	combined := map[wire.Slot][]wire.StorageEntryNewer{
		10: {{Id: 1, LenField: 64}},
		20: {},
	}
	opts := reconstruct.Options{
		Unpacked: unpacked,
		Open:     testsupport.FakeOpener,
		Rename:   renamer(),
		Exists:   fsExists,
	}
	result, err := reconstruct.Run(context.Background(), combined, opts)
	require.NoError(t, err)
	require.Len(t, result.Storage, 1)
	_, hasEmptySlot := result.Storage[20]
	require.False(t, hasEmptySlot)
}

func TestRunEmptyReconstructionIsInvariantViolation(t *testing.T) {
	// Every slot contributes zero storages, so the residual map is empty
	// after the post-pass: a producer bug that must fail loudly rather than
	// return a usable-looking empty db.
	combined := map[wire.Slot][]wire.StorageEntryNewer{
		10: {},
	}
	opts := reconstruct.Options{
		Unpacked: reconstruct.UnpackedAppendVecMap{},
		Open:     testsupport.FakeOpener,
		Rename:   renamer(),
		Exists:   fsExists,
	}
	require.Panics(t, func() {
		_, _ = reconstruct.Run(context.Background(), combined, opts)
	})
}
