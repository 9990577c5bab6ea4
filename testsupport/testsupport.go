// Package testsupport provides deterministic fixture builders shared by
// this module's table-driven tests, modeled on the JSON-subtest idiom the
// teacher repo uses for its state tests.
package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solarbank/accountsdb/accountsdb"
	"github.com/solarbank/accountsdb/wire"
)

// fakeReader is a trivial AppendVecReader double that just echoes the
// length it was told about; no test in this module inspects the iterator
// itself, only whether the length assertion fired.
type fakeReader struct{ length uint64 }

func (f fakeReader) Len() uint64 { return f.length }

// FakeOpener opens path via os.Stat and returns a fakeReader whose Len is
// the file's actual on-disk size, which reconstruct.Run's length-mismatch
// check compares against the decoded length. The account count it reports
// is that same size.
func FakeOpener(path string, wantLen uint64) (accountsdb.AppendVecReader, uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	size := uint64(info.Size())
	return fakeReader{length: size}, size, nil
}

// NewFullFields builds an in-memory AccountsDbFields for the full snapshot
// of a test scenario. storages maps slot -> list of (id, len) pairs.
func NewFullFields(writeVersion, snapshotSlot uint64, storages map[wire.Slot][]wire.StorageEntryNewer) wire.AccountsDbFields[wire.StorageEntryNewer] {
	return wire.AccountsDbFields[wire.StorageEntryNewer]{
		Storages:     storages,
		WriteVersion: writeVersion,
		SnapshotSlot: snapshotSlot,
	}
}

// NewIncrementalFields is NewFullFields's twin for the optional incremental
// stream.
func NewIncrementalFields(writeVersion, snapshotSlot uint64, storages map[wire.Slot][]wire.StorageEntryNewer) *wire.AccountsDbFields[wire.StorageEntryNewer] {
	f := NewFullFields(writeVersion, snapshotSlot, storages)
	return &f
}

// Entry is shorthand for building a StorageEntryNewer literal in test
// tables.
func Entry(id, length uint64) wire.StorageEntryNewer {
	return wire.StorageEntryNewer{Id: id, LenField: length}
}

// EncodeStream serializes bf and adf with WriteBankAndAccountsDbFields,
// returning the bytes a production stream would carry. Used by the snapshot
// orchestrator tests to build their input streams.
func EncodeStream(t *testing.T, bf wire.BankFields, adf wire.AccountsDbFields[wire.StorageEntryNewer]) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := wire.NewEncoder(&buf)
	require.NoError(t, wire.WriteBankAndAccountsDbFields(enc, bf, adf))
	return buf.Bytes()
}

// TempUnpackedDir creates a temporary directory and writes one zero-filled
// file per name/length pair. Callers pass names built from their own
// canonical filename function (commonly reconstruct.FileName) — kept as a
// plain map here to avoid this package depending on snapshot/reconstruct.
func TempUnpackedDir(t *testing.T, files map[string]uint64) (string, map[string]string) {
	t.Helper()
	dir := t.TempDir()
	unpacked := make(map[string]string, len(files))
	for name, length := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, make([]byte, length), 0o644))
		unpacked[name] = p
	}
	return dir, unpacked
}
