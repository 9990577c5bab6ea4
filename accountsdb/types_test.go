package accountsdb_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solarbank/accountsdb/accountsdb"
	"github.com/solarbank/accountsdb/internal/domainkeys"
	"github.com/solarbank/accountsdb/wire"
)

func TestRegistrySizesReflectsInstalledState(t *testing.T) {
	db := accountsdb.New(accountsdb.Config{})
	err := accountsdb.Assemble(
		db,
		map[uint64]map[uint64]*accountsdb.AccountStorageEntry{10: {1: {Slot: 10, ID: 1}}},
		1, 0, 10, wire.BankHashInfo{},
		&fakeIndexGenerator{}, &fakeNotifier{}, &fakeFiller{},
		accountsdb.GenesisEpochSchedule{}, nil, false,
	)
	require.NoError(t, err)

	sizes := db.RegistrySizes()
	require.Equal(t, 1, sizes[domainkeys.BankHashRegistry])
	require.Equal(t, 1, sizes[domainkeys.StorageRegistry])
}

func TestStorageCountForSlotUnknownSlotIsZero(t *testing.T) {
	db := accountsdb.New(accountsdb.Config{})
	require.Equal(t, 0, db.StorageCountForSlot(999))
	_, ok := db.StorageEntry(999, 1)
	require.False(t, ok)
}
