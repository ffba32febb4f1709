package bench

import (
	"context"
	"net/http"

	"binobj/api"
	"binobj/bwire"
	"binobj/record"
	"binobj/rpc"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
)

var ErrEchoMismatch = errors.New("echoed user differs from the one sent")

const (
	TransportJSON   = "json"
	TransportBuf    = "buf"
	TransportCBOR   = "cbor"
	TransportGRPC   = "grpc"
	TransportInproc = "inproc"
)

var TransportNames = []string{
	TransportJSON,
	TransportBuf,
	TransportCBOR,
	TransportGRPC,
	TransportInproc,
}

// Transport performs one round trip of a user and reports how many bytes
// crossed the wire.
type Transport interface {
	Name() string
	RoundTrip(ctx context.Context, user *record.User) (int, error)
	Close() error
}

type TransportOpts struct {
	HTTPURL     string
	HTTPClient  *http.Client
	RPCAddr     string
	DialOptions []grpc.DialOption
	Codec       *bwire.ConfiguredCodec
}

func NewTransport(name string, opts *TransportOpts) (Transport, error) {
	codec := opts.Codec
	if codec == nil {
		def := bwire.DefaultCodec()
		codec = &def
	}
	switch name {
	case TransportJSON, TransportBuf, TransportCBOR:
		client, err := api.NewClient(opts.HTTPURL, opts.HTTPClient, codec)
		if err != nil {
			return nil, err
		}
		return &httpTransport{name: name, client: client}, nil
	case TransportGRPC:
		client, err := rpc.Dial(opts.RPCAddr, codec, opts.DialOptions...)
		if err != nil {
			return nil, err
		}
		return &grpcTransport{client: client, codec: codec}, nil
	case TransportInproc:
		return &inprocTransport{codec: codec}, nil
	default:
		return nil, errors.Errorf("unknown transport %q", name)
	}
}

type httpTransport struct {
	name   string
	client *api.Client
}

func (t *httpTransport) Name() string {
	return t.name
}

func (t *httpTransport) RoundTrip(ctx context.Context, user *record.User) (int, error) {
	echoed, n, err := t.client.Echo(ctx, t.name, user)
	if err != nil {
		return 0, err
	}
	if !user.Equals(echoed) {
		return 0, ErrEchoMismatch
	}
	return n, nil
}

func (t *httpTransport) Close() error {
	return nil
}

type grpcTransport struct {
	client *rpc.Client
	codec  *bwire.ConfiguredCodec
}

func (t *grpcTransport) Name() string {
	return TransportGRPC
}

func (t *grpcTransport) RoundTrip(ctx context.Context, user *record.User) (int, error) {
	echoed, err := t.client.Echo(ctx, user)
	if err != nil {
		return 0, err
	}
	if !user.Equals(echoed) {
		return 0, ErrEchoMismatch
	}
	// request and reply are the same record
	buf, err := t.codec.Marshal(user)
	if err != nil {
		return 0, err
	}
	return 2 * len(buf), nil
}

func (t *grpcTransport) Close() error {
	return t.client.Close()
}

// inprocTransport skips the network entirely and measures the codec alone.
type inprocTransport struct {
	codec *bwire.ConfiguredCodec
}

func (t *inprocTransport) Name() string {
	return TransportInproc
}

func (t *inprocTransport) RoundTrip(_ context.Context, user *record.User) (int, error) {
	buf, err := t.codec.Marshal(user)
	if err != nil {
		return 0, err
	}
	decoded, err := bwire.FromWith[record.User](t.codec, buf)
	if err != nil {
		return 0, err
	}
	if !user.Equals(decoded) {
		return 0, ErrEchoMismatch
	}
	return len(buf), nil
}

func (t *inprocTransport) Close() error {
	return nil
}
