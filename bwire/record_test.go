package bwire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_RejectsUnimplemented(t *testing.T) {
	rec, err := New[emptyImplRecord]()
	require.Nil(t, rec)
	require.ErrorIs(t, err, ErrAbstractUsage)

	empty := &emptyImplRecord{}
	require.ErrorIs(t, Check(empty), ErrAbstractUsage)
	require.Equal(t, 0, empty.fieldCalls)
}

func TestNew_RejectsHalfImplemented(t *testing.T) {
	_, err := New[encodeOnlyRecord]()
	require.ErrorIs(t, err, ErrAbstractUsage)
	require.Contains(t, err.Error(), "decode")

	half := &encodeOnlyRecord{}
	require.ErrorIs(t, Check(half), ErrAbstractUsage)
	require.Equal(t, 0, half.fieldCalls)

	// encoding still works, only materialization is refused
	buf, err := Marshal(&encodeOnlyRecord{Value: 3})
	require.NoError(t, err)
	_, err = From[encodeOnlyRecord](buf)
	require.ErrorIs(t, err, ErrAbstractUsage)
}

func TestNew_RejectsBadDeclarations(t *testing.T) {
	_, err := New[typoRecord]()
	require.ErrorIs(t, err, ErrUnknownField)
	require.Contains(t, err.Error(), "valeu")
}

func TestFrom_ReturnsFreshInstance(t *testing.T) {
	in := &mixedRecord{ID: 123456789, Name: "First Name", Active: true, Score: 1}
	buf, err := Marshal(in)
	require.NoError(t, err)

	a, err := From[mixedRecord](buf)
	require.NoError(t, err)
	b, err := From[mixedRecord](buf)
	require.NoError(t, err)
	require.NotSame(t, a, b)
	require.NotSame(t, in, a)
	require.Equal(t, in, a)
}

func TestFrom_PropagatesDecodeErrors(t *testing.T) {
	_, err := From[numberRecord]([]byte{0x01})
	require.ErrorIs(t, err, ErrTruncated)
}

func TestMarshal_PropagatesDeclarationErrors(t *testing.T) {
	_, err := Marshal(&emptyImplRecord{})
	require.ErrorIs(t, err, ErrAbstractUsage)

	var out typoRecord
	err = Unmarshal([]byte{}, &out)
	require.ErrorIs(t, err, ErrUnknownField)
	require.Contains(t, err.Error(), "error declaring decode fields")
}
