package rpc

import (
	"context"
	"math"
	"net"
	"testing"

	"binobj/bwire"
	"binobj/record"
	"binobj/store"
	"binobj/testutil/testfs"

	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func setupRPC(t *testing.T, db *leveldb.DB) (*Client, func()) {
	lis := bufconn.Listen(1024 * 1024)
	srv := NewServer(&Opts{DB: db})
	go srv.Serve(lis)

	client, err := Dial(
		"passthrough:///bufnet",
		nil,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	return client, func() {
		require.NoError(t, client.Close())
		require.NoError(t, srv.Stop())
	}
}

func TestServer_Echo(t *testing.T) {
	client, done := setupRPC(t, nil)
	defer done()

	for _, user := range []*record.User{
		record.NewUser(1, "First Name", "Second Name"),
		record.NewUser(math.NaN(), "", ""),
		record.NewUser(math.Copysign(0, -1), "ä", "😀"),
	} {
		echoed, err := client.Echo(context.Background(), user)
		require.NoError(t, err)
		require.True(t, user.Equals(echoed))
	}
}

func TestServer_PutWithoutStore(t *testing.T) {
	client, done := setupRPC(t, nil)
	defer done()

	_, err := client.Put(context.Background(), record.NewUser(1, "a", "b"))
	require.Error(t, err)
	require.Equal(t, codes.Unavailable, status.Code(err))
}

func TestServer_Put(t *testing.T) {
	dir, cleanup := testfs.NewTempDir(t)
	defer cleanup()
	db, err := store.Open(dir)
	require.NoError(t, err)
	defer db.Close()

	client, done := setupRPC(t, db)
	defer done()

	user := record.NewUser(12, "a", "b")
	ack, err := client.Put(context.Background(), user)
	require.NoError(t, err)
	require.True(t, ack.Stored)

	def := bwire.DefaultCodec()
	stored, err := store.GetUser(db, &def, 12)
	require.NoError(t, err)
	require.True(t, user.Equals(stored))
}

func TestCodec(t *testing.T) {
	c := NewCodec(nil)
	require.Equal(t, CodecName, c.Name())

	buf, err := c.Marshal(&Ack{Stored: true})
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, buf[bwire.LengthPrefixSize:])

	var ack Ack
	require.NoError(t, c.Unmarshal(buf, &ack))
	require.True(t, ack.Stored)

	_, err = c.Marshal("not a record")
	require.Error(t, err)
	require.Error(t, c.Unmarshal(buf, new(int)))
}

func TestServer_StartStop(t *testing.T) {
	srv := NewServer(&Opts{Host: "127.0.0.1", Port: 0})
	require.NoError(t, srv.Start())
	client, err := Dial(srv.Addr(), nil)
	require.NoError(t, err)
	defer client.Close()
	user := record.NewUser(5, "x", "y")
	echoed, err := client.Echo(context.Background(), user)
	require.NoError(t, err)
	require.True(t, user.Equals(echoed))
	require.NoError(t, srv.Stop())
}
