package bwire

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Marshal declares rec's encode fields and encodes them using the default
// codec.
func Marshal(rec Record) ([]byte, error) {
	return defaultCodec.Marshal(rec)
}

// Encode encodes the fields declared on s using the default codec.
func Encode(s *Schema) ([]byte, error) {
	return defaultCodec.Encode(s)
}

func (c *ConfiguredCodec) Marshal(rec Record) ([]byte, error) {
	s := NewSchema(rec)
	if err := rec.DeclareEncode(s); err != nil {
		return nil, errors.Wrap(err, "error declaring encode fields")
	}
	return c.Encode(s)
}

type pendingEntry struct {
	kind  Kind
	width int
	num   float64
	units []uint16
	flag  bool
}

// Encode sizes every declared entry, allocates the buffer once and writes
// the entries in declaration order.
func (c *ConfiguredCodec) Encode(s *Schema) ([]byte, error) {
	if err := s.Err(); err != nil {
		return nil, err
	}

	entries := make([]pendingEntry, len(s.descs))
	total := 0
	for i, d := range s.descs {
		e, err := prepareEntry(d, s.accessor(d.Name))
		if err != nil {
			return nil, err
		}
		if uint64(e.width) > math.MaxUint32 || (c.MaxEntryLen != 0 && uint64(e.width) > uint64(c.MaxEntryLen)) {
			return nil, errors.Wrapf(ErrEntryTooLarge, "field %s: %d bytes", d.Name, e.width)
		}
		entries[i] = e
		total += c.headerSize() + e.width
	}

	buf := make([]byte, total)
	off := 0
	for _, e := range entries {
		if c.Tagged {
			buf[off] = byte(e.kind)
			off++
		}
		binary.NativeEndian.PutUint32(buf[off:], uint32(e.width))
		off += LengthPrefixSize
		writePayload(buf[off:off+e.width], e)
		off += e.width
	}
	return buf, nil
}

func prepareEntry(d FieldDescriptor, acc interface{}) (pendingEntry, error) {
	e := pendingEntry{kind: d.Kind}
	switch d.Kind {
	case KindNumber:
		e.num = *acc.(*float64)
		e.width = NumberWidth(e.num)
	case KindString:
		str := *acc.(*string)
		if !utf8.ValidString(str) {
			return e, errors.Wrapf(ErrInvalidString, "field %s", d.Name)
		}
		e.units = utf16.Encode([]rune(str))
		e.width = 2 * len(e.units)
	case KindBoolean:
		e.flag = *acc.(*bool)
		e.width = 1
	default:
		return e, errors.Wrapf(ErrUnimplementedKind, "field %s: cannot encode %s", d.Name, d.Kind)
	}
	return e, nil
}

func writePayload(p []byte, e pendingEntry) {
	switch e.kind {
	case KindNumber:
		if e.width == 4 {
			binary.NativeEndian.PutUint32(p, uint32(int32(e.num)))
		} else {
			binary.NativeEndian.PutUint64(p, math.Float64bits(e.num))
		}
	case KindString:
		for i, u := range e.units {
			binary.NativeEndian.PutUint16(p[i*2:], u)
		}
	case KindBoolean:
		if e.flag {
			p[0] = 0x01
		}
	}
}

// NumberWidth returns 4 when v survives a round trip through int32 and 8
// otherwise. Negative zero, NaN and the infinities always take 8 bytes.
func NumberWidth(v float64) int {
	if IsSafeInt32(v) {
		return 4
	}
	return 8
}

func IsSafeInt32(v float64) bool {
	if !(v >= math.MinInt32 && v <= math.MaxInt32) {
		return false
	}
	if v != math.Trunc(v) {
		return false
	}
	return !(v == 0 && math.Signbit(v))
}
