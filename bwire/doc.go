/*
Package bwire implements a declarative binary encoding for flat records.

A record declares, in order, which of its fields are written and as what
Kind. The codec turns those declarations into a buffer made of one entry per
field:

	[length: uint32, native byte order][payload: length bytes]

There is no header, field count or type tag. The decoder relies entirely on
its own declarations to know how many entries to read and how to interpret
each payload.

Kinds:

  - number: a float64. Encoded as a 4-byte int32 when the value is an
    integer in [-2^31, 2^31-1] other than negative zero, otherwise as an
    8-byte IEEE-754 double. NaN, the infinities and -0 always take the
    8-byte form and round-trip bit for bit.
  - string: encoded as UTF-16 code units, two bytes each. Strings that are
    not valid UTF-8 fail with ErrInvalidString.
  - boolean: a single byte, 0x01 or 0x00. Any non-zero byte decodes as
    true.
  - record: reserved for nested records. Encoding or decoding one fails
    with ErrUnimplementedKind.

A record type exposes its fields and the two declaration lists:

	type User struct {
		ID   float64
		Name string
	}

	func (u *User) Fields() bwire.Fields {
		return bwire.Fields{"id": &u.ID, "name": &u.Name}
	}

	func (u *User) DeclareEncode(s *bwire.Schema) error {
		s.Number("id")
		s.String("name")
		return s.Err()
	}

	func (u *User) DeclareDecode(s *bwire.Schema) error {
		return u.DeclareEncode(s)
	}

Then:

	buf, err := bwire.Marshal(user)
	decoded, err := bwire.From[User](buf)

Decoding is stricter than the format requires: reading past the end of the
buffer returns ErrTruncated and leftover bytes return ErrTrailingBytes. A
ConfiguredCodec can relax the latter, bound entry sizes, or switch to the
tagged variant, which prefixes every entry with its Kind so that mismatched
declarations are caught on decode.
*/
package bwire
