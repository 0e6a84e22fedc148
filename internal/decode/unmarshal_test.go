package decode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ossyrian/mintywad/internal/decode"
)

// pair is a 6-byte record: u16 then i32.
type pair struct {
	A uint16
	B int32
}

func (p *pair) DecodeFrom(d *decode.Decoder) error {
	var err error
	if p.A, err = d.ReadU16(); err != nil {
		return err
	}
	p.B, err = d.ReadI32()
	return err
}

// lengthPrefixed asks for a caller-controlled number of bytes.
type lengthPrefixed struct {
	n int
}

func (l *lengthPrefixed) DecodeFrom(d *decode.Decoder) error {
	return d.Skip(l.n)
}

func TestUnmarshal(t *testing.T) {
	exact := []byte{0x02, 0x00, 0xFE, 0xFF, 0xFF, 0xFF}

	tests := []struct {
		name    string
		input   []byte
		want    pair
		wantErr error
	}{
		{
			name:  "exact record",
			input: exact,
			want:  pair{A: 2, B: -2},
		},
		{
			name:    "one trailing byte",
			input:   append(append([]byte{}, exact...), 0x00),
			wantErr: decode.ErrTrailingBytes,
		},
		{
			name:    "truncated in second field",
			input:   exact[:5],
			wantErr: decode.ErrUnexpectedEOF,
		},
		{
			name:    "truncated in first field",
			input:   exact[:1],
			wantErr: decode.ErrUnexpectedEOF,
		},
		{
			name:    "empty input",
			input:   nil,
			wantErr: decode.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got pair
			err := decode.Unmarshal(tt.input, &got)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshal_ProtocolViolations(t *testing.T) {
	err := decode.Unmarshal([]byte{0x00}, nil)
	require.ErrorIs(t, err, decode.ErrOther)

	err = decode.Unmarshal([]byte{0x00}, &lengthPrefixed{n: -4})
	require.ErrorIs(t, err, decode.ErrOther)
	assert.Contains(t, err.Error(), "negative read length")

	var perr *decode.ProtocolError
	require.ErrorAs(t, err, &perr)
}
