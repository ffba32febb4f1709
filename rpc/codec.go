package rpc

import (
	"binobj/bwire"

	"github.com/pkg/errors"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of messages carried as bwire
// buffers.
const CodecName = "bwire"

type wireCodec struct {
	wire *bwire.ConfiguredCodec
}

var _ encoding.Codec = (*wireCodec)(nil)

// NewCodec adapts wire to gRPC. Every message passed through it must be a
// bwire.Record.
func NewCodec(wire *bwire.ConfiguredCodec) encoding.Codec {
	if wire == nil {
		def := bwire.DefaultCodec()
		wire = &def
	}
	return &wireCodec{wire: wire}
}

func (c *wireCodec) Marshal(v interface{}) ([]byte, error) {
	rec, ok := v.(bwire.Record)
	if !ok {
		return nil, errors.Errorf("%T is not a record", v)
	}
	return c.wire.Marshal(rec)
}

func (c *wireCodec) Unmarshal(data []byte, v interface{}) error {
	rec, ok := v.(bwire.Record)
	if !ok {
		return errors.Errorf("%T is not a record", v)
	}
	return c.wire.Unmarshal(data, rec)
}

func (c *wireCodec) Name() string {
	return CodecName
}
