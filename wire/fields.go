package wire

import "github.com/pkg/errors"

// ReadBankHashStats reads a BankHashStats record.
func ReadBankHashStats(dec *Decoder) (BankHashStats, error) {
	var s BankHashStats
	var err error
	if s.NumUpdatedAccounts, err = dec.ReadUint64(); err != nil {
		return s, err
	}
	if s.NumRemovedAccounts, err = dec.ReadUint64(); err != nil {
		return s, err
	}
	if s.NumLamportsStored, err = dec.ReadUint64(); err != nil {
		return s, err
	}
	if s.TotalDataLen, err = dec.ReadUint64(); err != nil {
		return s, err
	}
	if s.NumExecutableAccounts, err = dec.ReadUint64(); err != nil {
		return s, err
	}
	return s, nil
}

func WriteBankHashStats(enc *Encoder, s BankHashStats) error {
	for _, v := range []uint64{s.NumUpdatedAccounts, s.NumRemovedAccounts, s.NumLamportsStored, s.TotalDataLen, s.NumExecutableAccounts} {
		if err := enc.WriteUint64(v); err != nil {
			return err
		}
	}
	return nil
}

// ReadBankHashInfo reads a BankHashInfo record.
func ReadBankHashInfo(dec *Decoder) (BankHashInfo, error) {
	var info BankHashInfo
	if err := dec.ReadFixed(info.AccountsHash[:]); err != nil {
		return info, err
	}
	if err := dec.ReadFixed(info.SnapshotHash[:]); err != nil {
		return info, err
	}
	stats, err := ReadBankHashStats(dec)
	if err != nil {
		return info, err
	}
	info.Stats = stats
	return info, nil
}

func WriteBankHashInfo(enc *Encoder, info BankHashInfo) error {
	if err := enc.WriteFixed(info.AccountsHash[:]); err != nil {
		return err
	}
	if err := enc.WriteFixed(info.SnapshotHash[:]); err != nil {
		return err
	}
	return WriteBankHashStats(enc, info.Stats)
}

// ReadStorageEntryNewer reads one SerializableAccountStorageEntry record for
// the Newer format variant (spec §3: "at least { id, current_len }").
func ReadStorageEntryNewer(dec *Decoder) (StorageEntryNewer, error) {
	var e StorageEntryNewer
	id, err := dec.ReadUint64()
	if err != nil {
		return e, err
	}
	ln, err := dec.ReadUint64()
	if err != nil {
		return e, err
	}
	e.Id, e.LenField = id, ln
	return e, nil
}

func WriteStorageEntryNewer(enc *Encoder, e StorageEntryNewer) error {
	if err := enc.WriteUint64(e.Id); err != nil {
		return err
	}
	return enc.WriteUint64(e.LenField)
}

// ReadAncestors reads a length-prefixed slot->depth map.
func ReadAncestors(dec *Decoder) (Ancestors, error) {
	n, err := dec.ReadLen()
	if err != nil {
		return nil, err
	}
	out := make(Ancestors, n)
	for i := uint64(0); i < n; i++ {
		slot, err := dec.ReadUint64()
		if err != nil {
			return nil, err
		}
		depth, err := dec.ReadUint64()
		if err != nil {
			return nil, err
		}
		out[slot] = depth
	}
	return out, nil
}

func WriteAncestors(enc *Encoder, a Ancestors) error {
	if err := enc.WriteLen(uint64(len(a))); err != nil {
		return err
	}
	for slot, depth := range a {
		if err := enc.WriteUint64(slot); err != nil {
			return err
		}
		if err := enc.WriteUint64(depth); err != nil {
			return err
		}
	}
	return nil
}

// ReadBankFields reads a BankFields record.
func ReadBankFields(dec *Decoder) (BankFields, error) {
	var bf BankFields
	var err error
	if bf.Slot, err = dec.ReadUint64(); err != nil {
		return BankFields{}, err
	}
	if bf.ParentSlot, err = dec.ReadUint64(); err != nil {
		return BankFields{}, err
	}
	if bf.Ancestors, err = ReadAncestors(dec); err != nil {
		return BankFields{}, err
	}
	if bf.Capitalization, err = dec.ReadUint64(); err != nil {
		return BankFields{}, err
	}
	if bf.MaxTickHeight, err = dec.ReadUint64(); err != nil {
		return BankFields{}, err
	}
	return bf, nil
}

func WriteBankFields(enc *Encoder, bf BankFields) error {
	if err := enc.WriteUint64(bf.Slot); err != nil {
		return err
	}
	if err := enc.WriteUint64(bf.ParentSlot); err != nil {
		return err
	}
	if err := WriteAncestors(enc, bf.Ancestors); err != nil {
		return err
	}
	if err := enc.WriteUint64(bf.Capitalization); err != nil {
		return err
	}
	return enc.WriteUint64(bf.MaxTickHeight)
}

// ReadAccountsDbFieldsNewer reads an AccountsDbFields[StorageEntryNewer]
// record: a length-prefixed map of Slot -> []StorageEntryNewer, followed by
// write_version, snapshot_slot and bank_hash_info (spec §3).
func ReadAccountsDbFieldsNewer(dec *Decoder) (AccountsDbFields[StorageEntryNewer], error) {
	var out AccountsDbFields[StorageEntryNewer]

	numSlots, err := dec.ReadLen()
	if err != nil {
		return out, err
	}
	storages := make(map[Slot][]StorageEntryNewer, numSlots)
	for i := uint64(0); i < numSlots; i++ {
		slot, err := dec.ReadUint64()
		if err != nil {
			return out, err
		}
		numEntries, err := dec.ReadLen()
		if err != nil {
			return out, err
		}
		entries := make([]StorageEntryNewer, 0, numEntries)
		for j := uint64(0); j < numEntries; j++ {
			e, err := ReadStorageEntryNewer(dec)
			if err != nil {
				return out, err
			}
			entries = append(entries, e)
		}
		if _, dup := storages[slot]; dup {
			return out, errors.Errorf("duplicate slot key %d in accounts-db fields", slot)
		}
		storages[slot] = entries
	}

	writeVersion, err := dec.ReadUint64()
	if err != nil {
		return out, err
	}
	snapshotSlot, err := dec.ReadUint64()
	if err != nil {
		return out, err
	}
	hashInfo, err := ReadBankHashInfo(dec)
	if err != nil {
		return out, err
	}

	out.Storages = storages
	out.WriteVersion = writeVersion
	out.SnapshotSlot = snapshotSlot
	out.BankHashInfo = hashInfo
	return out, nil
}

func WriteAccountsDbFieldsNewer(enc *Encoder, f AccountsDbFields[StorageEntryNewer]) error {
	if err := enc.WriteLen(uint64(len(f.Storages))); err != nil {
		return err
	}
	for slot, entries := range f.Storages {
		if err := enc.WriteUint64(slot); err != nil {
			return err
		}
		if err := enc.WriteLen(uint64(len(entries))); err != nil {
			return err
		}
		for _, e := range entries {
			if err := WriteStorageEntryNewer(enc, e); err != nil {
				return err
			}
		}
	}
	if err := enc.WriteUint64(f.WriteVersion); err != nil {
		return err
	}
	if err := enc.WriteUint64(f.SnapshotSlot); err != nil {
		return err
	}
	return WriteBankHashInfo(enc, f.BankHashInfo)
}

// ReadBankAndAccountsDbFields reads both records from one decoder in a
// single call (spec §4.2): BankFields immediately followed by
// AccountsDbFields, so the stream cursor advances past both or the call
// fails and neither is returned.
func ReadBankAndAccountsDbFields(dec *Decoder) (BankFields, AccountsDbFields[StorageEntryNewer], error) {
	bf, err := ReadBankFields(dec)
	if err != nil {
		return BankFields{}, AccountsDbFields[StorageEntryNewer]{}, err
	}
	adf, err := ReadAccountsDbFieldsNewer(dec)
	if err != nil {
		return BankFields{}, AccountsDbFields[StorageEntryNewer]{}, err
	}
	return bf, adf, nil
}

// WriteBankAndAccountsDbFields is the documented exact inverse of
// ReadBankAndAccountsDbFields, used only by tests to assert the round-trip
// property from spec §8.
func WriteBankAndAccountsDbFields(enc *Encoder, bf BankFields, adf AccountsDbFields[StorageEntryNewer]) error {
	if err := WriteBankFields(enc, bf); err != nil {
		return err
	}
	return WriteAccountsDbFieldsNewer(enc, adf)
}
