package api

import (
	"testing"

	"binobj/bwire"
	"binobj/record"

	"github.com/stretchr/testify/require"
)

func TestRegistry_ForContentType(t *testing.T) {
	def := bwire.DefaultCodec()
	r, err := NewRegistry(&def)
	require.NoError(t, err)

	require.Equal(t, "json", r.ForContentType("application/json; charset=utf-8").Name())
	require.Equal(t, "cbor", r.ForContentType("text/html, application/cbor;q=0.9").Name())
	require.Equal(t, "buf", r.ForContentType(ContentTypeBinary).Name())
	require.Nil(t, r.ForContentType("text/plain"))
	require.Nil(t, r.ForContentType(""))
	require.Equal(t, "cbor", r.ForName("cbor").Name())
}

func TestCBORCodec_Deterministic(t *testing.T) {
	c, err := NewCBORCodec()
	require.NoError(t, err)
	user := record.NewUser(3, "a", "b")
	first, err := c.Marshal(user)
	require.NoError(t, err)
	second, err := c.Marshal(user)
	require.NoError(t, err)
	require.Equal(t, first, second)

	var out record.User
	require.NoError(t, c.Unmarshal(first, &out))
	require.True(t, user.Equals(&out))
}

func TestBinaryCodec_RejectsNonRecords(t *testing.T) {
	def := bwire.DefaultCodec()
	c := NewBinaryCodec(&def)
	_, err := c.Marshal(struct{}{})
	require.Error(t, err)
	require.Error(t, c.Unmarshal(nil, &struct{}{}))
}
