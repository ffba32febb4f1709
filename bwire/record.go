package bwire

import "github.com/pkg/errors"

// Record is implemented by every type the codec can serialize. DeclareEncode
// and DeclareDecode must declare the same kinds in the same order; the
// default wire format carries no tags, so a mismatch is not detectable on
// decode.
type Record interface {
	Fields() Fields
	DeclareEncode(s *Schema) error
	DeclareDecode(s *Schema) error
}

// Unimplemented may be embedded by record types that are still being built.
// Its declarations fail with ErrAbstractUsage, which New and From report
// before any field is touched.
type Unimplemented struct{}

func (Unimplemented) DeclareEncode(*Schema) error {
	return ErrAbstractUsage
}

func (Unimplemented) DeclareDecode(*Schema) error {
	return ErrAbstractUsage
}

type recordPtr[T any] interface {
	*T
	Record
}

// Check verifies that rec implements both declarations. Both are first run
// against detached schemas, so a record still using an Unimplemented default
// fails with ErrAbstractUsage before Fields is ever called. Both are then run
// against schemas bound to rec to validate the declared names and kinds.
func Check(rec Record) error {
	if errors.Is(rec.DeclareEncode(detachedSchema()), ErrAbstractUsage) {
		return errors.Wrapf(ErrAbstractUsage, "%T: encode", rec)
	}
	if errors.Is(rec.DeclareDecode(detachedSchema()), ErrAbstractUsage) {
		return errors.Wrapf(ErrAbstractUsage, "%T: decode", rec)
	}
	if err := rec.DeclareEncode(NewSchema(rec)); err != nil {
		return errors.Wrapf(err, "%T: invalid encode declarations", rec)
	}
	if err := rec.DeclareDecode(NewSchema(rec)); err != nil {
		return errors.Wrapf(err, "%T: invalid decode declarations", rec)
	}
	return nil
}

// New allocates a zero T and verifies that it can be both encoded and
// decoded.
func New[T any, P recordPtr[T]]() (P, error) {
	rec := P(new(T))
	if err := Check(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// From materializes a new T from buf.
func From[T any, P recordPtr[T]](buf []byte) (P, error) {
	return FromWith[T, P](defaultCodec, buf)
}

func FromWith[T any, P recordPtr[T]](c *ConfiguredCodec, buf []byte) (P, error) {
	rec, err := New[T, P]()
	if err != nil {
		return nil, err
	}
	if err := c.Unmarshal(buf, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
