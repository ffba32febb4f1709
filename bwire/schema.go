package bwire

import (
	"binobj/crypto"

	"github.com/pkg/errors"
)

// Fields maps a record's field names to accessors. Supported accessors are
// *float64 for numbers, *string for strings, *bool for booleans and a Record
// for nested records.
type Fields map[string]interface{}

// FieldDescriptor is one declared encode or decode step.
type FieldDescriptor struct {
	Name string
	Kind Kind
}

// Schema is the ordered, append-only list of declarations for a single
// encode or decode call against one record. It is not safe for concurrent
// use and should not outlive the call it was built for.
//
// The first failed declaration is sticky: subsequent declarations are
// ignored and Err returns the original failure.
type Schema struct {
	rec    Record
	fields Fields
	descs  []FieldDescriptor
	err    error

	// detached schemas record declarations without consulting a record
	detached bool
}

func NewSchema(rec Record) *Schema {
	return &Schema{
		rec: rec,
	}
}

func detachedSchema() *Schema {
	return &Schema{detached: true}
}

// Declare appends a descriptor for the named field. Nothing is appended
// when the field is unknown or cannot hold kind.
func (s *Schema) Declare(name string, kind Kind) error {
	if s.err != nil {
		return s.err
	}
	if err := s.check(name, kind); err != nil {
		s.err = err
		return err
	}
	s.descs = append(s.descs, FieldDescriptor{
		Name: name,
		Kind: kind,
	})
	return nil
}

func (s *Schema) Number(name string) error {
	return s.Declare(name, KindNumber)
}

func (s *Schema) String(name string) error {
	return s.Declare(name, KindString)
}

func (s *Schema) Boolean(name string) error {
	return s.Declare(name, KindBoolean)
}

func (s *Schema) Nested(name string) error {
	return s.Declare(name, KindNestedRecord)
}

func (s *Schema) Err() error {
	return s.err
}

func (s *Schema) Len() int {
	return len(s.descs)
}

// Descriptors returns a copy of the declared sequence.
func (s *Schema) Descriptors() []FieldDescriptor {
	out := make([]FieldDescriptor, len(s.descs))
	copy(out, s.descs)
	return out
}

// Fingerprint hashes the declared names and kinds in order. Two schemas with
// the same fingerprint lay out and interpret entries identically.
func (s *Schema) Fingerprint() crypto.Hash {
	chunks := make([][]byte, 0, len(s.descs)*2)
	for _, d := range s.descs {
		chunks = append(chunks, []byte{byte(d.Kind)}, append([]byte(d.Name), 0x00))
	}
	return crypto.Blake2B256(chunks...)
}

func (s *Schema) accessor(name string) interface{} {
	if s.fields == nil {
		s.fields = s.rec.Fields()
	}
	return s.fields[name]
}

func (s *Schema) check(name string, kind Kind) error {
	if !kind.valid() {
		return errors.Wrapf(ErrKindMismatch, "field %s: invalid kind %d", name, kind)
	}
	if s.detached {
		return nil
	}
	if s.rec == nil {
		return errors.Wrapf(ErrUnknownField, "field %s: schema has no record", name)
	}
	acc := s.accessor(name)
	if acc == nil {
		return errors.Wrapf(ErrUnknownField, "field %s", name)
	}

	var ok bool
	switch it := acc.(type) {
	case *float64:
		ok = kind == KindNumber && it != nil
	case *string:
		ok = kind == KindString && it != nil
	case *bool:
		ok = kind == KindBoolean && it != nil
	case Record:
		ok = kind == KindNestedRecord
	}
	if !ok {
		return errors.Wrapf(ErrKindMismatch, "field %s: accessor %T cannot hold %s", name, acc, kind)
	}
	return nil
}
