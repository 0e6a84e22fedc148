package decode_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossyrian/mintywad/internal/decode"
)

func TestDecoder_Unsigned(t *testing.T) {
	d := decode.NewDecoder([]byte{
		0xAB,
		0x34, 0x12,
		0x78, 0x56, 0x34, 0x12,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	})

	u8, err := d.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u16, err := d.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := d.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), u32)

	u64, err := d.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)

	assert.Equal(t, 15, d.Offset())
	assert.Equal(t, 0, d.Remaining())
	assert.NoError(t, d.Finish())
}

func TestDecoder_Signed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		read  func(*decode.Decoder) (int64, error)
		want  int64
	}{
		{
			name:  "i8 negative",
			input: []byte{0xFF},
			read:  func(d *decode.Decoder) (int64, error) { v, err := d.ReadI8(); return int64(v), err },
			want:  -1,
		},
		{
			name:  "i8 min",
			input: []byte{0x80},
			read:  func(d *decode.Decoder) (int64, error) { v, err := d.ReadI8(); return int64(v), err },
			want:  math.MinInt8,
		},
		{
			name:  "i16 negative",
			input: []byte{0xFE, 0xFF},
			read:  func(d *decode.Decoder) (int64, error) { v, err := d.ReadI16(); return int64(v), err },
			want:  -2,
		},
		{
			name:  "i16 positive with high low byte",
			input: []byte{0xFF, 0x00},
			read:  func(d *decode.Decoder) (int64, error) { v, err := d.ReadI16(); return int64(v), err },
			want:  255,
		},
		{
			name:  "i32 min",
			input: []byte{0x00, 0x00, 0x00, 0x80},
			read:  func(d *decode.Decoder) (int64, error) { v, err := d.ReadI32(); return int64(v), err },
			want:  math.MinInt32,
		},
		{
			name:  "i32 positive",
			input: []byte{0x3C, 0x00, 0x00, 0x00},
			read:  func(d *decode.Decoder) (int64, error) { v, err := d.ReadI32(); return int64(v), err },
			want:  60,
		},
		{
			name:  "i64 negative",
			input: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			read:  func(d *decode.Decoder) (int64, error) { return d.ReadI64() },
			want:  -1,
		},
		{
			name:  "i64 max",
			input: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F},
			read:  func(d *decode.Decoder) (int64, error) { return d.ReadI64() },
			want:  math.MaxInt64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decode.NewDecoder(tt.input)
			got, err := tt.read(d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, d.Finish())
		})
	}
}

func TestDecoder_UnexpectedEOF(t *testing.T) {
	d := decode.NewDecoder([]byte{0x01, 0x02, 0x03})

	_, err := d.ReadU32()
	require.ErrorIs(t, err, decode.ErrUnexpectedEOF)
	assert.Equal(t, 0, d.Offset(), "failed read must not advance")

	v, err := d.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), v)

	_, err = d.ReadI16()
	require.ErrorIs(t, err, decode.ErrUnexpectedEOF)

	_, err = decode.NewDecoder(nil).ReadU8()
	require.ErrorIs(t, err, decode.ErrUnexpectedEOF)
}

func TestDecoder_ReadFixedAndSkip(t *testing.T) {
	d := decode.NewDecoder([]byte("PWAD\x00\x01rest"))

	var magic [4]byte
	require.NoError(t, d.ReadFixed(magic[:]))
	assert.Equal(t, "PWAD", string(magic[:]))

	require.NoError(t, d.Skip(2))
	assert.Equal(t, 4, d.Remaining())

	err := d.Skip(-1)
	require.ErrorIs(t, err, decode.ErrOther)

	buf := make([]byte, 5)
	err = d.ReadFixed(buf)
	require.ErrorIs(t, err, decode.ErrUnexpectedEOF)

	err = d.Finish()
	require.ErrorIs(t, err, decode.ErrTrailingBytes)
}

func TestRead_Generic(t *testing.T) {
	d := decode.NewDecoder([]byte{0x01, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF})

	u, err := decode.Read[uint32](d)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), u)

	i, err := decode.Read[int32](d)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), i)
}
