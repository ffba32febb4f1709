package bwire

import (
	"binobj/crypto"
)

const (
	// LengthPrefixSize is the width of every entry's length prefix.
	LengthPrefixSize = 4

	DefaultMaxEntryLen = 16 * 1024 * 1024
)

type ConfiguredCodec struct {
	// MaxEntryLen is the largest payload length the codec will decode before
	// stopping early. Zero disables the check.
	MaxEntryLen uint32

	// AllowTrailing lets Decode succeed when bytes remain after the last
	// declared entry.
	AllowTrailing bool

	// Tagged prefixes every entry with a one-byte Kind so that decode can
	// detect declarations that disagree with the encoder. Tagged buffers are
	// not readable by an untagged codec and vice versa.
	Tagged bool
}

var defaultCodec = &ConfiguredCodec{
	MaxEntryLen: DefaultMaxEntryLen,
}

// DefaultCodec returns a copy of the codec used by the package-level
// functions.
func DefaultCodec() ConfiguredCodec {
	return *defaultCodec
}

// Fingerprint identifies the byte layout c produces for s. Untagged codecs
// report s.Fingerprint() unchanged; tagged ones mix in the tag so that
// stores and peers written with one mode reject the other.
func (c *ConfiguredCodec) Fingerprint(s *Schema) crypto.Hash {
	fp := s.Fingerprint()
	if !c.Tagged {
		return fp
	}
	return crypto.Blake2B256(fp.Bytes(), []byte("tagged"))
}

func (c *ConfiguredCodec) headerSize() int {
	if c.Tagged {
		return LengthPrefixSize + 1
	}
	return LengthPrefixSize
}

// EntryInfo describes one entry found by Entries.
type EntryInfo struct {
	// Kind is only set for tagged buffers.
	Kind   Kind
	Offset int
	Length int
}

// Entries walks buf and reports the location of every entry without
// interpreting payloads.
func Entries(buf []byte) ([]EntryInfo, error) {
	return defaultCodec.Entries(buf)
}

func (c *ConfiguredCodec) Entries(buf []byte) ([]EntryInfo, error) {
	var out []EntryInfo
	r := newEntryReader(c, buf)
	for r.remaining() > 0 {
		kind, payload, err := r.next()
		if err != nil {
			return nil, err
		}
		out = append(out, EntryInfo{
			Kind:   kind,
			Offset: r.off - len(payload),
			Length: len(payload),
		})
	}
	return out, nil
}
