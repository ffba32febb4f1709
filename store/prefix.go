package store

import (
	"strings"
)

const keySep = "/"

type KeyFunc func(parts ...string) []byte

// Prefixer returns a KeyFunc that joins its parts under prefix.
func Prefixer(prefix string) KeyFunc {
	return func(parts ...string) []byte {
		k := strings.Join(append([]string{prefix}, parts...), keySep)
		return []byte(k)
	}
}

// Sub nests a new namespace under k.
func (k KeyFunc) Sub(name string) KeyFunc {
	return Prefixer(string(k(name)))
}
