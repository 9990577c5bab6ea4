// Package bank implements the bank assembler (spec §4.6): wiring a
// reconstructed AccountsDb into the external Bank/BankRc collaborators.
package bank

import (
	"github.com/pkg/errors"

	"github.com/solarbank/accountsdb/accountsdb"
	"github.com/solarbank/accountsdb/wire"
)

// Pubkey is an opaque 32-byte account address, kept untyped beyond its
// storage shape: validating or deriving pubkeys is out of this module's
// scope (spec §1 out-of-scope collaborators).
type Pubkey [32]byte

// Accounts is the external adapter collaborator that exposes a reconstructed
// AccountsDb to Bank under the bank's own slot.
type Accounts interface {
	FreezeAccounts(ancestors wire.Ancestors, frozenPubkeys []Pubkey) error
}

// BankRc is the reference-counted handle a constructed Bank is wrapped in,
// mirroring the original's Arc<Bank> sharing model one layer up from
// AccountsDb's own ownership story.
type BankRc struct {
	Bank Bank
}

// Bank is this module's view of the assembled validator bank: enough to
// prove assembly succeeded and to let tests inspect the wiring. The real
// fields (blockhash queue, fee governance, epoch stakes, ...) belong to the
// external BankConstructor collaborator and are out of scope (spec §1).
type Bank struct {
	Slot                  wire.Slot
	ParentSlot            wire.Slot
	DebugDoNotAddBuiltins bool
	AccountsDb            *accountsdb.AccountsDb
}

// BankConstructor is the external "build a Bank" collaborator invoked once
// accounts have been frozen and adapted (spec §4.6 step 3).
type BankConstructor interface {
	ConstructBank(fields BankFieldsToDeserialize, acc Accounts, debugDoNotAddBuiltins bool) (Bank, error)
}

// BankFieldsToDeserialize is the minimal slice of bank-level wire fields
// this assembler needs; it embeds wire.BankFields and adds the
// slot-limit knob that drives DebugDoNotAddBuiltins, since the full
// BankFieldsToDeserialize record (blockhash queue, fee calculators, ...)
// belongs to the external constructor collaborator.
type BankFieldsToDeserialize struct {
	wire.BankFields
	LimitLoadSlotCountFromSnapshot *int
}

// accountsAdapter is the default Accounts implementation. Its
// FreezeAccounts checks that the db's bank-hash registry holds an entry for
// the adapter's slot and returns an error if it does not. It does not
// inspect the ancestor set or the frozen pubkeys, does not mutate storage,
// and records nothing.
type accountsAdapter struct {
	db   *accountsdb.AccountsDb
	slot wire.Slot
}

// NewAccounts builds the default Accounts adapter for a reconstructed db
// taken at the bank's slot.
func NewAccounts(db *accountsdb.AccountsDb, slot wire.Slot) Accounts {
	return &accountsAdapter{db: db, slot: slot}
}

func (a *accountsAdapter) FreezeAccounts(ancestors wire.Ancestors, frozenPubkeys []Pubkey) error {
	if _, ok := a.db.BankHashInfo(a.slot); !ok {
		return errors.Errorf("cannot freeze accounts: no bank-hash entry installed for slot %d", a.slot)
	}
	return nil
}

// Assemble performs spec §4.6: freeze the frozen-account set, wrap db in the
// Accounts adapter, and invoke the external BankConstructor with
// DebugDoNotAddBuiltins set iff LimitLoadSlotCountFromSnapshot was
// provided — a partial load cannot satisfy the builtin-registration
// invariants.
func Assemble(db *accountsdb.AccountsDb, fields BankFieldsToDeserialize, frozenPubkeys []Pubkey, ctor BankConstructor) (Bank, error) {
	acc := NewAccounts(db, fields.Slot)

	if err := acc.FreezeAccounts(fields.Ancestors, frozenPubkeys); err != nil {
		return Bank{}, errors.Wrap(err, "freeze accounts")
	}

	debugDoNotAddBuiltins := fields.LimitLoadSlotCountFromSnapshot != nil

	b, err := ctor.ConstructBank(fields, acc, debugDoNotAddBuiltins)
	if err != nil {
		return Bank{}, errors.Wrap(err, "construct bank")
	}
	return b, nil
}
