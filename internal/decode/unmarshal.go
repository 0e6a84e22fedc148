package decode

// Unmarshaler is implemented by fixed-shape records. DecodeFrom reads the
// record's fields from d in declaration order and nothing else.
type Unmarshaler interface {
	DecodeFrom(d *Decoder) error
}

// Unmarshal decodes exactly one record from data. Input left over after
// the record's last field fails with ErrTrailingBytes; input that ends
// early fails with ErrUnexpectedEOF.
func Unmarshal(data []byte, v Unmarshaler) error {
	if v == nil {
		return Otherf("unmarshal into nil record")
	}
	d := NewDecoder(data)
	if err := v.DecodeFrom(d); err != nil {
		return err
	}
	return d.Finish()
}
