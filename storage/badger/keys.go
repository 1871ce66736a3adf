package badger

import (
	"encoding/binary"

	"github.com/poiesic/tupper/core"
)

// Key prefixes for different data types
const (
	dishPrefix     = "dish:"
	dishNamePrefix = "dishname:"
)

// dishKeyLen is the length of a primary dish key.
const dishKeyLen = len(dishPrefix) + 8

// makeDishKey generates a key for a dish by ID.
// Format: prefix + big-endian ID, so iteration order is ID order.
func makeDishKey(id core.ID) []byte {
	buf := make([]byte, dishKeyLen)
	offset := copy(buf, dishPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// dishIDFromKey extracts the ID from a primary dish key.
func dishIDFromKey(key []byte) (core.ID, bool) {
	if len(key) != dishKeyLen || string(key[:len(dishPrefix)]) != dishPrefix {
		return 0, false
	}
	return core.ID(binary.BigEndian.Uint64(key[len(dishPrefix):])), true
}

// makeDishNameKey generates a key for the name index.
// Names are matched case-insensitively and ignoring surrounding space.
func makeDishNameKey(name string) []byte {
	return []byte(dishNamePrefix + core.NormalizeName(name))
}
