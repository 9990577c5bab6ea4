package accountsdb

// IndexGenerator is the external secondary-index builder collaborator
// (spec §1 out of scope). Assemble drives it on the calling goroutine once
// every storage map has been installed, honoring limitLoadSlotCount and
// verifyIndex as the caller configured them.
type IndexGenerator interface {
	GenerateIndex(db *AccountsDb, limitLoadSlotCount *int, verifyIndex bool) error
}

// RestoreNotifier is the external restore-completion notifier collaborator.
// Assemble launches exactly one goroutine running Notify and joins it
// before returning.
type RestoreNotifier interface {
	Notify(db *AccountsDb)
}

// FillerAccounts is the external synthetic-account-filler collaborator used
// by load-testing harnesses upstream; production genesis configs are a
// no-op implementation.
type FillerAccounts interface {
	FillAccounts(db *AccountsDb, genesis GenesisEpochSchedule) error
}

// GenesisEpochSchedule is the minimal genesis-derived input FillerAccounts
// needs. Every other genesis field belongs to the external genesis-config
// provider (spec §9) and is out of this module's scope.
type GenesisEpochSchedule struct {
	SlotsPerEpoch    uint64 `toml:"slots_per_epoch"`
	FirstNormalEpoch uint64 `toml:"first_normal_epoch"`
}
