// Package wire implements the bounded, fixed-width binary decoder spec
// §4.1 requires and the BankFields/AccountsDbFields record reader spec
// §4.2 requires. No library in the pack reproduces Rust bincode's exact
// framing (fixed-width integers, hard byte ceiling, trailing bytes
// tolerated), so this is hand-rolled on encoding/binary — see DESIGN.md
// for the justification entry.
package wire

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// MaxStreamSize is the hard byte ceiling spec §4.1 mandates: 32 GiB.
const MaxStreamSize uint64 = 32 * 1024 * 1024 * 1024

// Decoder reads fixed-width, little-endian values from one stream, tracking
// cumulative bytes consumed against MaxStreamSize. Trailing bytes after the
// logical payload are never read, so they are tolerated by construction.
type Decoder struct {
	r        io.Reader
	consumed uint64
}

// NewDecoder wraps r. r is read sequentially; a single Decoder is meant to
// decode exactly one BankFields + AccountsDbFields pair (spec §4.2).
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

func (d *Decoder) readFull(buf []byte) error {
	if d.consumed+uint64(len(buf)) > MaxStreamSize {
		return newDecodeError(KindSizeLimit, errors.Errorf("would exceed %d byte limit", MaxStreamSize))
	}
	n, err := io.ReadFull(d.r, buf)
	d.consumed += uint64(n)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return newDecodeError(KindUnexpectedEOF, err)
		}
		return newDecodeError(KindMalformed, err)
	}
	return nil
}

// ReadUint8 reads one byte.
func (d *Decoder) ReadUint8() (uint8, error) {
	var buf [1]byte
	if err := d.readFull(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadBool reads one fixed-width byte as a boolean (0 or 1); any other value
// is malformed input.
func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.ReadUint8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, newDecodeError(KindMalformed, errors.Errorf("invalid bool byte %d", v))
	}
}

// ReadUint32 reads a fixed-width little-endian uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	var buf [4]byte
	if err := d.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadUint64 reads a fixed-width little-endian uint64.
func (d *Decoder) ReadUint64() (uint64, error) {
	var buf [8]byte
	if err := d.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// ReadLen reads a sequence/map length, encoded the same as any other
// fixed-width uint64. Rejected up front if it alone would blow the byte
// budget, so a corrupt huge length fails fast instead of driving an
// unbounded allocation.
func (d *Decoder) ReadLen() (uint64, error) {
	n, err := d.ReadUint64()
	if err != nil {
		return 0, err
	}
	if n > MaxStreamSize {
		return 0, newDecodeError(KindSizeLimit, errors.Errorf("declared length %d exceeds %d byte limit", n, MaxStreamSize))
	}
	return n, nil
}

// ReadBytes reads exactly n bytes.
func (d *Decoder) ReadBytes(n uint64) ([]byte, error) {
	if d.consumed+n > MaxStreamSize {
		return nil, newDecodeError(KindSizeLimit, errors.Errorf("would exceed %d byte limit", MaxStreamSize))
	}
	buf := make([]byte, n)
	if err := d.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadFixed reads exactly len(buf) bytes into buf, e.g. for [32]byte hashes.
func (d *Decoder) ReadFixed(buf []byte) error {
	return d.readFull(buf)
}

// ReadString reads a length-prefixed UTF-8 string.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadLen()
	if err != nil {
		return "", err
	}
	b, err := d.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Consumed reports the number of bytes read from the underlying stream so
// far.
func (d *Decoder) Consumed() uint64 { return d.consumed }
