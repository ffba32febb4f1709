package rpc

import (
	"binobj/bwire"
)

const FieldStored = "stored"

// Ack is the reply to Put.
type Ack struct {
	Stored bool
}

var _ bwire.Record = (*Ack)(nil)

func (a *Ack) Fields() bwire.Fields {
	return bwire.Fields{
		FieldStored: &a.Stored,
	}
}

func (a *Ack) DeclareEncode(s *bwire.Schema) error {
	return s.Boolean(FieldStored)
}

func (a *Ack) DeclareDecode(s *bwire.Schema) error {
	return s.Boolean(FieldStored)
}
