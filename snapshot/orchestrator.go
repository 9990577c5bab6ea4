package snapshot

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/solarbank/accountsdb/accountsdb"
	"github.com/solarbank/accountsdb/bank"
	"github.com/solarbank/accountsdb/config"
	"github.com/solarbank/accountsdb/internal/logging"
	"github.com/solarbank/accountsdb/snapshot/reconstruct"
	"github.com/solarbank/accountsdb/telemetry"
	"github.com/solarbank/accountsdb/wire"
)

// SerdeStyle selects a wire format variant. One variant exists today
// (StyleNewer); adding a variant means adding a case to the switch inside
// BankFromStreams and nowhere else (spec §4.7, §9 "single dispatch point").
type SerdeStyle int

const (
	StyleNewer SerdeStyle = iota
)

// Streams bundles the two independent ingest byte streams (spec §6). A nil
// Incremental means full-snapshot-only.
type Streams struct {
	Full        io.Reader
	Incremental io.Reader
}

// AccountPaths is the caller-provided set of directories append-vec files
// may live under. BankFromStreams creates any that do not already exist
// (via config.EnsureDirs) before reading the streams.
type AccountPaths []string

// Options bundles the remaining knobs spec §6's conceptual
// bank_from_streams signature lists: secondary indexes, caching, slot
// limit, shrink ratio, verify-index, db config, and the external
// collaborators driven during assembly.
type Options struct {
	DbConfig           accountsdb.Config
	LimitLoadSlotCount *int
	VerifyIndex        bool
	IndexGenerator     accountsdb.IndexGenerator
	FillerAccounts     accountsdb.FillerAccounts
	Notifier           accountsdb.RestoreNotifier
	BankConstructor    bank.BankConstructor
	Reconstruct        reconstruct.Options
	Telemetry          telemetry.Recorder
}

// BankFromStreams is the top-level orchestrator (spec §4.7). State machine:
// READ_FULL -> READ_INCR? -> MERGE -> RECONSTRUCT -> ASSEMBLE_DB ->
// ASSEMBLE_BANK -> DONE. Failures up to ASSEMBLE_DB are returned as an
// error after one warning log line, per spec §7. ASSEMBLE_BANK failures are
// fatal (partial bank construction cannot be safely discarded): they panic
// with a *FatalAssemblyError instead of being returned.
func BankFromStreams(
	ctx context.Context,
	style SerdeStyle,
	streams Streams,
	paths AccountPaths,
	unpacked reconstruct.UnpackedAppendVecMap,
	genesis config.GenesisConfig,
	frozenPubkeys []bank.Pubkey,
	opts Options,
) (bank.Bank, error) {
	b, err := bankFromStreams(ctx, style, streams, paths, unpacked, genesis, frozenPubkeys, opts)
	if err != nil {
		logging.WarnCause("bank_from_streams", err)
		return bank.Bank{}, err
	}
	return b, nil
}

func bankFromStreams(
	ctx context.Context,
	style SerdeStyle,
	streams Streams,
	paths AccountPaths,
	unpacked reconstruct.UnpackedAppendVecMap,
	genesis config.GenesisConfig,
	frozenPubkeys []bank.Pubkey,
	opts Options,
) (bank.Bank, error) {
	if err := config.EnsureDirs(paths); err != nil {
		return bank.Bank{}, errors.Wrap(err, "ensure account paths")
	}

	var (
		fullBankFields  wire.BankFields
		fullDbFields    wire.AccountsDbFields[wire.StorageEntryNewer]
		incrBankFields  wire.BankFields
		incrDbFields    wire.AccountsDbFields[wire.StorageEntryNewer]
		haveIncremental bool
	)

	switch style {
	case StyleNewer:
		dec := wire.NewDecoder(streams.Full)
		bf, adf, err := wire.ReadBankAndAccountsDbFields(dec)
		if err != nil {
			return bank.Bank{}, errors.Wrap(err, "read full snapshot")
		}
		fullBankFields, fullDbFields = bf, adf

		if streams.Incremental != nil {
			idec := wire.NewDecoder(streams.Incremental)
			ibf, iadf, err := wire.ReadBankAndAccountsDbFields(idec)
			if err != nil {
				return bank.Bank{}, errors.Wrap(err, "read incremental snapshot")
			}
			incrBankFields, incrDbFields = ibf, iadf
			haveIncremental = true
		}
	default:
		return bank.Bank{}, errors.Errorf("unsupported serde style %d", style)
	}

	snap := wire.SnapshotAccountsDbFields[wire.StorageEntryNewer]{Full: fullDbFields}
	activeBankFields := fullBankFields
	if haveIncremental {
		snap.Incremental = &incrDbFields
		activeBankFields = incrBankFields
	}

	merged, err := CollapseInto(snap)
	if err != nil {
		return bank.Bank{}, errors.Wrap(err, "merge snapshots")
	}

	reconOpts := opts.Reconstruct
	reconOpts.Unpacked = unpacked
	remapStart := time.Now()
	result, err := reconstruct.Run(ctx, merged.Storages, reconOpts)
	remapElapsed := time.Since(remapStart)
	if err != nil {
		return bank.Bank{}, errors.Wrap(err, "reconstruct storage")
	}

	if opts.Telemetry != nil {
		opts.Telemetry.RecordRemap(remapElapsed, result.Collisions)
	}

	db := accountsdb.New(opts.DbConfig)
	if err := accountsdb.Assemble(
		db,
		result.Storage,
		result.NextID,
		merged.WriteVersion,
		merged.SnapshotSlot,
		merged.BankHashInfo,
		opts.IndexGenerator,
		opts.Notifier,
		opts.FillerAccounts,
		genesis.EpochSchedule,
		opts.LimitLoadSlotCount,
		opts.VerifyIndex,
	); err != nil {
		return bank.Bank{}, errors.Wrap(err, "assemble accounts db")
	}

	fields := bank.BankFieldsToDeserialize{
		BankFields:                     activeBankFields,
		LimitLoadSlotCountFromSnapshot: opts.LimitLoadSlotCount,
	}
	b, err := bank.Assemble(db, fields, frozenPubkeys, opts.BankConstructor)
	if err != nil {
		// ASSEMBLE_BANK failures are fatal (spec §4.7): a partially
		// constructed Bank cannot be safely discarded, unlike the earlier,
		// recoverable decode/merge/reconstruct stages above.
		raiseFatalAssembly(errors.Wrap(err, "assemble bank"))
	}
	return b, nil
}
