package bwire

import (
	"encoding/binary"
	"math"
	"unicode/utf16"

	"github.com/pkg/errors"
)

type entryReader struct {
	c   *ConfiguredCodec
	buf []byte
	off int
}

func newEntryReader(c *ConfiguredCodec, buf []byte) *entryReader {
	return &entryReader{
		c:   c,
		buf: buf,
	}
}

func (r *entryReader) remaining() int {
	return len(r.buf) - r.off
}

// next returns the tag (zero when untagged) and payload of the entry at the
// current offset and advances past it.
func (r *entryReader) next() (Kind, []byte, error) {
	if r.remaining() < r.c.headerSize() {
		return 0, nil, errors.Wrapf(ErrTruncated, "need %d header bytes at offset %d, have %d", r.c.headerSize(), r.off, r.remaining())
	}

	var kind Kind
	if r.c.Tagged {
		kind = Kind(r.buf[r.off])
		r.off++
	}
	l := binary.NativeEndian.Uint32(r.buf[r.off:])
	r.off += LengthPrefixSize
	if r.c.MaxEntryLen != 0 && l > r.c.MaxEntryLen {
		return 0, nil, errors.Wrapf(ErrEntryTooLarge, "entry at offset %d declares %d bytes", r.off-LengthPrefixSize, l)
	}
	if uint64(l) > uint64(r.remaining()) {
		return 0, nil, errors.Wrapf(ErrTruncated, "entry at offset %d declares %d bytes, have %d", r.off-LengthPrefixSize, l, r.remaining())
	}

	payload := r.buf[r.off : r.off+int(l)]
	r.off += int(l)
	return kind, payload, nil
}

// Unmarshal declares rec's decode fields and populates them from buf using
// the default codec.
func Unmarshal(buf []byte, rec Record) error {
	return defaultCodec.Unmarshal(buf, rec)
}

// Decode populates the fields declared on s from buf using the default
// codec.
func Decode(buf []byte, s *Schema) error {
	return defaultCodec.Decode(buf, s)
}

func (c *ConfiguredCodec) Unmarshal(buf []byte, rec Record) error {
	s := NewSchema(rec)
	if err := rec.DeclareDecode(s); err != nil {
		return errors.Wrap(err, "error declaring decode fields")
	}
	return c.Decode(buf, s)
}

type decodedValue struct {
	num  float64
	str  string
	flag bool
}

// Decode reads one entry per declared field. Values are only assigned once
// the whole buffer has been read successfully, so a failed decode leaves the
// record untouched.
func (c *ConfiguredCodec) Decode(buf []byte, s *Schema) error {
	if err := s.Err(); err != nil {
		return err
	}

	values := make([]decodedValue, len(s.descs))
	r := newEntryReader(c, buf)
	for i, d := range s.descs {
		tag, payload, err := r.next()
		if err != nil {
			return errors.Wrapf(err, "field %s", d.Name)
		}
		if c.Tagged && tag != d.Kind {
			return errors.Wrapf(ErrKindMismatch, "field %s: declared %s, encoded %s", d.Name, d.Kind, tag)
		}
		val, err := readPayload(d, payload)
		if err != nil {
			return err
		}
		values[i] = val
	}
	if r.remaining() != 0 && !c.AllowTrailing {
		return errors.Wrapf(ErrTrailingBytes, "%d bytes left", r.remaining())
	}

	for i, d := range s.descs {
		acc := s.accessor(d.Name)
		switch d.Kind {
		case KindNumber:
			*acc.(*float64) = values[i].num
		case KindString:
			*acc.(*string) = values[i].str
		case KindBoolean:
			*acc.(*bool) = values[i].flag
		}
	}
	return nil
}

func readPayload(d FieldDescriptor, p []byte) (decodedValue, error) {
	var val decodedValue
	switch d.Kind {
	case KindNumber:
		switch len(p) {
		case 4:
			val.num = float64(int32(binary.NativeEndian.Uint32(p)))
		case 8:
			val.num = math.Float64frombits(binary.NativeEndian.Uint64(p))
		default:
			return val, errors.Wrapf(ErrUnsupportedWidth, "field %s: number of %d bytes", d.Name, len(p))
		}
	case KindString:
		if len(p)%2 != 0 {
			return val, errors.Wrapf(ErrUnsupportedWidth, "field %s: string of %d bytes", d.Name, len(p))
		}
		units := make([]uint16, len(p)/2)
		for i := range units {
			units[i] = binary.NativeEndian.Uint16(p[i*2:])
		}
		val.str = string(utf16.Decode(units))
	case KindBoolean:
		if len(p) != 1 {
			return val, errors.Wrapf(ErrUnsupportedWidth, "field %s: boolean of %d bytes", d.Name, len(p))
		}
		val.flag = p[0] != 0x00
	default:
		return val, errors.Wrapf(ErrUnimplementedKind, "field %s: cannot decode %s", d.Name, d.Kind)
	}
	return val, nil
}
