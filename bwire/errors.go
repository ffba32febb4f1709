package bwire

import "github.com/pkg/errors"

var (
	// ErrAbstractUsage is returned when a record type relies on the
	// Unimplemented defaults for its encode or decode declarations.
	ErrAbstractUsage = errors.New("record does not implement both encode and decode declarations")

	// ErrUnknownField is returned when a declaration names a field the
	// record does not expose.
	ErrUnknownField = errors.New("unknown field")

	// ErrKindMismatch is returned when a field accessor cannot hold the
	// declared kind, or when a tagged entry disagrees with its declaration.
	ErrKindMismatch = errors.New("field kind mismatch")

	// ErrUnsupportedWidth is returned when an entry's payload length is not
	// valid for its kind.
	ErrUnsupportedWidth = errors.New("unsupported payload width")

	// ErrUnimplementedKind is returned for kinds the codec does not encode,
	// currently nested records.
	ErrUnimplementedKind = errors.New("kind not implemented")

	// ErrInvalidString is returned when a string field holds bytes that are
	// not valid UTF-8 and so have no UTF-16 form.
	ErrInvalidString = errors.New("string is not valid UTF-8")

	ErrTruncated     = errors.New("buffer truncated")
	ErrTrailingBytes = errors.New("trailing bytes after last entry")
	ErrEntryTooLarge = errors.New("entry length exceeds codec limit")
)
