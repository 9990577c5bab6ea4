package wire

import (
	"encoding/binary"
	"io"
)

// Encoder writes the exact inverse of Decoder's framing. Producing snapshots
// is out of scope per spec §1/§6 except as the decoder's documented
// inverse; this exists to let tests assert the round-trip property from
// spec §8 and is not wired into any reconstruction path.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) WriteUint8(v uint8) error {
	_, err := e.w.Write([]byte{v})
	return err
}

func (e *Encoder) WriteBool(v bool) error {
	if v {
		return e.WriteUint8(1)
	}
	return e.WriteUint8(0)
}

func (e *Encoder) WriteUint32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := e.w.Write(buf[:])
	return err
}

func (e *Encoder) WriteUint64(v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := e.w.Write(buf[:])
	return err
}

func (e *Encoder) WriteLen(n uint64) error { return e.WriteUint64(n) }

func (e *Encoder) WriteBytes(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

func (e *Encoder) WriteFixed(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

func (e *Encoder) WriteString(s string) error {
	if err := e.WriteLen(uint64(len(s))); err != nil {
		return err
	}
	return e.WriteBytes([]byte(s))
}
