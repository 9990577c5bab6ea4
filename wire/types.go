package wire

// Slot is a ledger position: ordered, dense, 64-bit (spec §3 / GLOSSARY).
type Slot = uint64

// AppendVecId identifies one on-disk append-only accounts file within a
// slot (spec §3).
type AppendVecId = uint64

// WriteVersion is the monotone per-account update counter combined into the
// target AccountsDb by fetch-add on load (spec §3).
type WriteVersion = uint64

// BankHashStats is the opaque per-slot statistics bundle carried alongside
// the bank/snapshot hashes. Field set kept intentionally small: validating
// account hashes is delegated to the external index builder (spec §1
// non-goals), so this module never inspects these values, only stores and
// forwards them.
type BankHashStats struct {
	NumUpdatedAccounts  uint64
	NumRemovedAccounts  uint64
	NumLamportsStored   uint64
	TotalDataLen        uint64
	NumExecutableAccounts uint64
}

// BankHashInfo is the opaque per-slot summary hash from spec §3.
type BankHashInfo struct {
	AccountsHash [32]byte
	SnapshotHash [32]byte
	Stats        BankHashStats
}

// SerializableAccountStorageEntry is the capability set spec §3/§9 requires
// of a per-variant wire storage-entry record: an id, a declared length, and
// safety for concurrent reads during the parallel reconstructor (spec §4.4
// runs one goroutine per slot; entries from the same slot are read-only
// once decoded).
type SerializableAccountStorageEntry interface {
	ID() AppendVecId
	CurrentLen() uint64
}

// StorageEntryNewer is the one format variant implemented today (spec §4.7,
// §9: "One variant exists today (Newer)").
type StorageEntryNewer struct {
	Id        AppendVecId
	LenField  uint64
}

func (e StorageEntryNewer) ID() AppendVecId    { return e.Id }
func (e StorageEntryNewer) CurrentLen() uint64 { return e.LenField }

// AccountsDbFields is the per-stream record spec §3 defines:
// storages-per-slot, the monotone write-version, the snapshot slot, and the
// bank-hash summary.
type AccountsDbFields[E SerializableAccountStorageEntry] struct {
	Storages     map[Slot][]E
	WriteVersion WriteVersion
	SnapshotSlot Slot
	BankHashInfo BankHashInfo
}

// SnapshotAccountsDbFields pairs a mandatory full snapshot record with an
// optional incremental one (spec §3).
type SnapshotAccountsDbFields[E SerializableAccountStorageEntry] struct {
	Full        AccountsDbFields[E]
	Incremental *AccountsDbFields[E]
}

// Ancestors is the slot->depth ancestor set a bank was built against,
// needed by the bank assembler's freeze_accounts call (spec §4.6).
type Ancestors map[Slot]uint64

// BankFields is the minimal slice of BankFieldsToDeserialize this module's
// bank assembler needs: the bank's slot and parent slot, its ancestor set
// for freezing accounts, capitalization and max tick height. The
// debug_do_not_add_builtins decision is driven by the slot-count limit in
// bank.BankFieldsToDeserialize, not by any field here. Every other bank field
// (blockhash queue, fee governance, epoch stakes, ...) belongs to the
// external Bank constructor collaborator and is out of this module's scope
// (spec §1 "out of scope: external collaborators").
type BankFields struct {
	Slot           Slot
	ParentSlot     Slot
	Ancestors      Ancestors
	Capitalization uint64
	MaxTickHeight  uint64
}
