package decode

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Decoder reads fixed-width little-endian values from a byte slice in
// strict left-to-right order. It never seeks backwards: every successful
// read advances the cursor, a failed read leaves it where it was.
//
// A Decoder holds no knowledge of the records it decodes. Records describe
// their shape by the order in which they request primitives (see
// Unmarshaler).
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder returns a Decoder positioned at the start of b.
// b is not copied and must not be modified while the Decoder is in use.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.off
}

// Remaining returns the number of bytes not yet consumed.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

// Finish reports ErrTrailingBytes if the cursor has not reached the end
// of the buffer.
func (d *Decoder) Finish() error {
	if n := d.Remaining(); n != 0 {
		return &trailingError{n: n}
	}
	return nil
}

// take returns the next n bytes and advances the cursor.
func (d *Decoder) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, Otherf("negative read length %d", n)
	}
	if d.Remaining() < n {
		return nil, &eofError{want: n, have: d.Remaining()}
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

// Read decodes the next integer of type T. The width is the size of T;
// bytes are combined least-significant first. For signed T the bytes are
// accumulated directly into the signed width, so the top byte carries the
// sign.
func Read[T constraints.Integer](d *Decoder) (T, error) {
	var v T
	b, err := d.take(int(unsafe.Sizeof(v)))
	if err != nil {
		return 0, err
	}
	for i, c := range b {
		v |= T(c) << (8 * i)
	}
	return v, nil
}

// ReadFixed fills dst with the next len(dst) raw bytes.
func (d *Decoder) ReadFixed(dst []byte) error {
	b, err := d.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// Skip discards the next n bytes.
func (d *Decoder) Skip(n int) error {
	_, err := d.take(n)
	return err
}

// ReadU8 through ReadI64 read the next fixed-width integer; see Read.
func (d *Decoder) ReadU8() (uint8, error)   { return Read[uint8](d) }
func (d *Decoder) ReadU16() (uint16, error) { return Read[uint16](d) }
func (d *Decoder) ReadU32() (uint32, error) { return Read[uint32](d) }
func (d *Decoder) ReadU64() (uint64, error) { return Read[uint64](d) }
func (d *Decoder) ReadI8() (int8, error)    { return Read[int8](d) }
func (d *Decoder) ReadI16() (int16, error)  { return Read[int16](d) }
func (d *Decoder) ReadI32() (int32, error)  { return Read[int32](d) }
func (d *Decoder) ReadI64() (int64, error)  { return Read[int64](d) }
