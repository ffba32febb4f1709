package bwire

// Kind selects how a field's payload is sized on encode and interpreted on
// decode. The kind is never written to the default wire format; both sides
// agree on it through their declarations.
type Kind uint8

const (
	KindNumber Kind = iota + 1
	KindString
	KindBoolean
	KindNestedRecord
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindNestedRecord:
		return "record"
	default:
		return "unknown"
	}
}

func (k Kind) valid() bool {
	return k >= KindNumber && k <= KindNestedRecord
}
