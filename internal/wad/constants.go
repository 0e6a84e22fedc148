package wad

// Magic numbers identifying WAD files. IWAD is a main game archive, PWAD a
// patch archive. Both are accepted on read; writes always produce PWAD.
var (
	MagicIWAD = [4]byte{'I', 'W', 'A', 'D'}
	MagicPWAD = [4]byte{'P', 'W', 'A', 'D'}
)

// Binary layout sizes in bytes.
const (
	// HeaderSize is magic(4) + lump count(4) + directory offset(4).
	HeaderSize = 12
	// EntrySize is offset(4) + size(4) + name(8).
	EntrySize = 16
	// NameSize is the width of the NUL-padded name field.
	NameSize = 8
)

// ValidMagic reports whether m is one of the recognized magic numbers.
func ValidMagic(m [4]byte) bool {
	return m == MagicIWAD || m == MagicPWAD
}
