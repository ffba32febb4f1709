package rpc

import (
	"context"

	"binobj/bwire"
	"binobj/record"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to a Users server at target. wire must match the server's
// codec settings.
func Dial(target string, wire *bwire.ConfiguredCodec, opts ...grpc.DialOption) (*Client, error) {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(NewCodec(wire))),
	}
	conn, err := grpc.NewClient(target, append(base, opts...)...)
	if err != nil {
		return nil, errors.Wrap(err, "error creating RPC client")
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Echo(ctx context.Context, user *record.User) (*record.User, error) {
	out := new(record.User)
	if err := c.conn.Invoke(ctx, echoMethod, user, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Put(ctx context.Context, user *record.User) (*Ack, error) {
	out := new(Ack)
	if err := c.conn.Invoke(ctx, putMethod, user, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
