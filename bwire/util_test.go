package bwire

type numberRecord struct {
	Value float64
}

func (n *numberRecord) Fields() Fields {
	return Fields{"value": &n.Value}
}

func (n *numberRecord) DeclareEncode(s *Schema) error {
	return s.Number("value")
}

func (n *numberRecord) DeclareDecode(s *Schema) error {
	return s.Number("value")
}

type stringRecord struct {
	Value string
}

func (r *stringRecord) Fields() Fields {
	return Fields{"value": &r.Value}
}

func (r *stringRecord) DeclareEncode(s *Schema) error {
	return s.String("value")
}

func (r *stringRecord) DeclareDecode(s *Schema) error {
	return s.String("value")
}

type mixedRecord struct {
	ID     float64
	Name   string
	Active bool
	Score  float64
}

func (m *mixedRecord) Fields() Fields {
	return Fields{
		"id":     &m.ID,
		"name":   &m.Name,
		"active": &m.Active,
		"score":  &m.Score,
	}
}

func (m *mixedRecord) DeclareEncode(s *Schema) error {
	s.Number("id")
	s.String("name")
	s.Boolean("active")
	s.Number("score")
	return s.Err()
}

func (m *mixedRecord) DeclareDecode(s *Schema) error {
	return m.DeclareEncode(s)
}

type parentRecord struct {
	ID    float64
	Child numberRecord
}

func (p *parentRecord) Fields() Fields {
	return Fields{"id": &p.ID, "child": &p.Child}
}

func (p *parentRecord) DeclareEncode(s *Schema) error {
	s.Number("id")
	s.Nested("child")
	return s.Err()
}

func (p *parentRecord) DeclareDecode(s *Schema) error {
	return p.DeclareEncode(s)
}

type emptyImplRecord struct {
	Unimplemented
	fieldCalls int
	Value      float64
}

func (e *emptyImplRecord) Fields() Fields {
	e.fieldCalls++
	return Fields{"value": &e.Value}
}

type encodeOnlyRecord struct {
	Unimplemented
	fieldCalls int
	Value      float64
}

func (e *encodeOnlyRecord) Fields() Fields {
	e.fieldCalls++
	return Fields{"value": &e.Value}
}

func (e *encodeOnlyRecord) DeclareEncode(s *Schema) error {
	return s.Number("value")
}

type typoRecord struct {
	Value float64
}

func (r *typoRecord) Fields() Fields {
	return Fields{"value": &r.Value}
}

func (r *typoRecord) DeclareEncode(s *Schema) error {
	return s.Number("value")
}

func (r *typoRecord) DeclareDecode(s *Schema) error {
	return s.Number("valeu")
}

func payloadOf(buf []byte) []byte {
	return buf[LengthPrefixSize:]
}
