package accountsdb_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solarbank/accountsdb/accountsdb"
	"github.com/solarbank/accountsdb/wire"
)

type fakeIndexGenerator struct{ called bool }

func (f *fakeIndexGenerator) GenerateIndex(db *accountsdb.AccountsDb, limit *int, verify bool) error {
	f.called = true
	return nil
}

type fakeFiller struct{ called bool }

func (f *fakeFiller) FillAccounts(db *accountsdb.AccountsDb, genesis accountsdb.GenesisEpochSchedule) error {
	f.called = true
	return nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	started bool
	done    bool
}

func (n *fakeNotifier) Notify(db *accountsdb.AccountsDb) {
	n.mu.Lock()
	n.started = true
	n.mu.Unlock()
	n.mu.Lock()
	n.done = true
	n.mu.Unlock()
}

func TestAssembleInstallsStateAndDrivesCollaborators(t *testing.T) {
	db := accountsdb.New(accountsdb.Config{ShrinkRatio: 0.8})

	storage := map[wire.Slot]map[wire.AppendVecId]*accountsdb.AccountStorageEntry{
		10: {1: {Slot: 10, ID: 1, NumAccounts: 5}},
	}
	hashInfo := wire.BankHashInfo{AccountsHash: [32]byte{1}}
	idx := &fakeIndexGenerator{}
	filler := &fakeFiller{}
	notifier := &fakeNotifier{}

	err := accountsdb.Assemble(db, storage, 2, 7, 10, hashInfo, idx, notifier, filler, accountsdb.GenesisEpochSchedule{SlotsPerEpoch: 432000}, nil, true)
	require.NoError(t, err)

	require.True(t, idx.called)
	require.True(t, filler.called)
	require.True(t, notifier.done)

	got, ok := db.BankHashInfo(10)
	require.True(t, ok)
	require.Equal(t, hashInfo, got)

	require.Equal(t, wire.AppendVecId(2), db.NextID())
	require.Equal(t, wire.WriteVersion(7), db.WriteVersion())

	entry, ok := db.StorageEntry(10, 1)
	require.True(t, ok)
	require.Equal(t, uint64(5), entry.NumAccounts)
}

type failingIndexGenerator struct{}

func (failingIndexGenerator) GenerateIndex(db *accountsdb.AccountsDb, limit *int, verify bool) error {
	return require.AnError
}

func TestAssembleJoinsNotifierEvenOnCollaboratorFailure(t *testing.T) {
	db := accountsdb.New(accountsdb.Config{})
	notifier := &fakeNotifier{}

	err := accountsdb.Assemble(db, nil, 1, 1, 1, wire.BankHashInfo{}, failingIndexGenerator{}, notifier, &fakeFiller{}, accountsdb.GenesisEpochSchedule{}, nil, false)
	require.Error(t, err)
	require.True(t, notifier.done)
}
