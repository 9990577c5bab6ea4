package bank_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solarbank/accountsdb/accountsdb"
	"github.com/solarbank/accountsdb/bank"
	"github.com/solarbank/accountsdb/wire"
)

type recordingCtor struct {
	lastDebugDoNotAddBuiltins bool
	called                    bool
}

func (c *recordingCtor) ConstructBank(fields bank.BankFieldsToDeserialize, acc bank.Accounts, debugDoNotAddBuiltins bool) (bank.Bank, error) {
	c.called = true
	c.lastDebugDoNotAddBuiltins = debugDoNotAddBuiltins
	return bank.Bank{Slot: fields.Slot, ParentSlot: fields.ParentSlot, DebugDoNotAddBuiltins: debugDoNotAddBuiltins}, nil
}

func newDbWithSlot(t *testing.T, slot wire.Slot) *accountsdb.AccountsDb {
	t.Helper()
	db := accountsdb.New(accountsdb.Config{})
	err := accountsdb.Assemble(
		db,
		map[wire.Slot]map[wire.AppendVecId]*accountsdb.AccountStorageEntry{slot: {1: {Slot: slot, ID: 1}}},
		1, 0, slot, wire.BankHashInfo{},
		noopIndex{}, noopNotifier{}, noopFiller{},
		accountsdb.GenesisEpochSchedule{}, nil, false,
	)
	require.NoError(t, err)
	return db
}

type noopIndex struct{}

func (noopIndex) GenerateIndex(*accountsdb.AccountsDb, *int, bool) error { return nil }

type noopNotifier struct{}

func (noopNotifier) Notify(*accountsdb.AccountsDb) {}

type noopFiller struct{}

func (noopFiller) FillAccounts(*accountsdb.AccountsDb, accountsdb.GenesisEpochSchedule) error {
	return nil
}

func TestAssembleSetsDebugDoNotAddBuiltinsWhenSlotLimitProvided(t *testing.T) {
	db := newDbWithSlot(t, 10)
	limit := 5
	fields := bank.BankFieldsToDeserialize{
		BankFields:                     wire.BankFields{Slot: 10, Ancestors: wire.Ancestors{}},
		LimitLoadSlotCountFromSnapshot: &limit,
	}
	ctor := &recordingCtor{}

	b, err := bank.Assemble(db, fields, nil, ctor)
	require.NoError(t, err)
	require.True(t, b.DebugDoNotAddBuiltins)
	require.True(t, ctor.lastDebugDoNotAddBuiltins)
}

func TestAssembleLeavesDebugDoNotAddBuiltinsFalseWithoutSlotLimit(t *testing.T) {
	db := newDbWithSlot(t, 10)
	fields := bank.BankFieldsToDeserialize{
		BankFields: wire.BankFields{Slot: 10, Ancestors: wire.Ancestors{}},
	}
	ctor := &recordingCtor{}

	b, err := bank.Assemble(db, fields, nil, ctor)
	require.NoError(t, err)
	require.False(t, b.DebugDoNotAddBuiltins)
}

func TestAssembleFailsWithoutInstalledBankHash(t *testing.T) {
	db := accountsdb.New(accountsdb.Config{})
	fields := bank.BankFieldsToDeserialize{
		BankFields: wire.BankFields{Slot: 10, Ancestors: wire.Ancestors{}},
	}
	_, err := bank.Assemble(db, fields, nil, &recordingCtor{})
	require.Error(t, err)
}
