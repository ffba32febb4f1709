package bwire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchema_Declare(t *testing.T) {
	rec := &mixedRecord{}
	s := NewSchema(rec)
	require.NoError(t, s.Number("id"))
	require.NoError(t, s.String("name"))
	require.NoError(t, s.Boolean("active"))
	require.Equal(t, []FieldDescriptor{
		{Name: "id", Kind: KindNumber},
		{Name: "name", Kind: KindString},
		{Name: "active", Kind: KindBoolean},
	}, s.Descriptors())
}

func TestSchema_UnknownFieldDoesNotMutate(t *testing.T) {
	s := NewSchema(&mixedRecord{})
	require.NoError(t, s.Number("id"))
	err := s.Number("missing")
	require.ErrorIs(t, err, ErrUnknownField)
	require.Contains(t, err.Error(), "missing")
	require.Equal(t, 1, s.Len())

	// sticky: later valid declarations are ignored
	require.ErrorIs(t, s.String("name"), ErrUnknownField)
	require.Equal(t, 1, s.Len())
	require.ErrorIs(t, s.Err(), ErrUnknownField)

	_, err = Encode(s)
	require.ErrorIs(t, err, ErrUnknownField)
	require.ErrorIs(t, Decode(nil, s), ErrUnknownField)
}

func TestSchema_KindMismatch(t *testing.T) {
	s := NewSchema(&mixedRecord{})
	err := s.String("id")
	require.ErrorIs(t, err, ErrKindMismatch)
	require.Contains(t, err.Error(), "*float64 cannot hold string")
	require.Equal(t, 0, s.Len())

	s = NewSchema(&mixedRecord{})
	require.ErrorIs(t, s.Declare("id", Kind(99)), ErrKindMismatch)

	s = NewSchema(&parentRecord{})
	require.NoError(t, s.Nested("child"))
	require.ErrorIs(t, s.Number("child"), ErrKindMismatch)
}

func TestSchema_DescriptorsIsCopy(t *testing.T) {
	s := NewSchema(&mixedRecord{})
	require.NoError(t, s.Number("id"))
	descs := s.Descriptors()
	descs[0].Kind = KindString
	require.Equal(t, KindNumber, s.Descriptors()[0].Kind)
}

func TestSchema_Fingerprint(t *testing.T) {
	a := NewSchema(&mixedRecord{})
	require.NoError(t, (&mixedRecord{}).DeclareEncode(a))
	b := NewSchema(&mixedRecord{ID: 5})
	require.NoError(t, (&mixedRecord{}).DeclareDecode(b))
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := NewSchema(&mixedRecord{})
	c.Number("id")
	c.Boolean("active")
	c.String("name")
	c.Number("score")
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestConfiguredCodec_Fingerprint(t *testing.T) {
	s := NewSchema(&mixedRecord{})
	require.NoError(t, (&mixedRecord{}).DeclareEncode(s))

	untagged := DefaultCodec()
	require.Equal(t, s.Fingerprint(), untagged.Fingerprint(s))

	tagged := DefaultCodec()
	tagged.Tagged = true
	require.NotEqual(t, s.Fingerprint(), tagged.Fingerprint(s))
	require.Equal(t, tagged.Fingerprint(s), tagged.Fingerprint(s))
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "number", KindNumber.String())
	require.Equal(t, "string", KindString.String())
	require.Equal(t, "boolean", KindBoolean.String())
	require.Equal(t, "record", KindNestedRecord.String())
	require.Equal(t, "unknown", Kind(0).String())
}
