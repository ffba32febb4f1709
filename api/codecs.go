package api

import (
	"strings"

	"binobj/bwire"

	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const (
	ContentTypeBinary = "application/octet-stream"
	ContentTypeJSON   = "application/json"
	ContentTypeCBOR   = "application/cbor"
)

// Codec marshals records for one content type.
type Codec interface {
	Name() string
	ContentType() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// Registry maps content types and short names to codecs.
type Registry struct {
	byType map[string]Codec
	byName map[string]Codec
}

// NewRegistry returns a registry holding the binary codec built from wire
// plus the JSON and CBOR comparison codecs.
func NewRegistry(wire *bwire.ConfiguredCodec) (*Registry, error) {
	r := &Registry{
		byType: make(map[string]Codec),
		byName: make(map[string]Codec),
	}
	cborCodec, err := NewCBORCodec()
	if err != nil {
		return nil, err
	}
	r.Register(NewBinaryCodec(wire))
	r.Register(NewJSONCodec())
	r.Register(cborCodec)
	return r, nil
}

func (r *Registry) Register(c Codec) {
	r.byType[c.ContentType()] = c
	r.byName[c.Name()] = c
}

// ForContentType resolves a Content-Type or Accept header value, ignoring
// parameters. It returns nil when nothing matches.
func (r *Registry) ForContentType(header string) Codec {
	for _, part := range strings.Split(header, ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if c := r.byType[mediaType]; c != nil {
			return c
		}
	}
	return nil
}

func (r *Registry) ForName(name string) Codec {
	return r.byName[name]
}

type BinaryCodec struct {
	wire *bwire.ConfiguredCodec
}

func NewBinaryCodec(wire *bwire.ConfiguredCodec) *BinaryCodec {
	return &BinaryCodec{wire: wire}
}

func (c *BinaryCodec) Name() string {
	return "buf"
}

func (c *BinaryCodec) ContentType() string {
	return ContentTypeBinary
}

func (c *BinaryCodec) Marshal(v interface{}) ([]byte, error) {
	rec, ok := v.(bwire.Record)
	if !ok {
		return nil, errors.Errorf("%T is not a record", v)
	}
	return c.wire.Marshal(rec)
}

func (c *BinaryCodec) Unmarshal(data []byte, v interface{}) error {
	rec, ok := v.(bwire.Record)
	if !ok {
		return errors.Errorf("%T is not a record", v)
	}
	return c.wire.Unmarshal(data, rec)
}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type JSONCodec struct{}

func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

func (c *JSONCodec) Name() string {
	return "json"
}

func (c *JSONCodec) ContentType() string {
	return ContentTypeJSON
}

func (c *JSONCodec) Marshal(v interface{}) ([]byte, error) {
	return jsonAPI.Marshal(v)
}

func (c *JSONCodec) Unmarshal(data []byte, v interface{}) error {
	return jsonAPI.Unmarshal(data, v)
}

// CBORCodec uses Core Deterministic Encoding so equal records always encode
// to equal bytes.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func NewCBORCodec() (*CBORCodec, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, errors.Wrap(err, "error building CBOR encoder")
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, errors.Wrap(err, "error building CBOR decoder")
	}
	return &CBORCodec{enc: enc, dec: dec}, nil
}

func (c *CBORCodec) Name() string {
	return "cbor"
}

func (c *CBORCodec) ContentType() string {
	return ContentTypeCBOR
}

func (c *CBORCodec) Marshal(v interface{}) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c *CBORCodec) Unmarshal(data []byte, v interface{}) error {
	return c.dec.Unmarshal(data, v)
}
