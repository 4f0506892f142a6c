// Package hash implements the 32-byte content fingerprint used as the
// primary key throughout the index: a SHA-256 digest, ordered
// lexicographically byte-by-byte and rendered as 64 lowercase hex
// characters at the API boundary.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/skogkatt/wasteisland/common"
)

// Size is the width of a Hash in bytes.
const Size = 32

// Hash is a 32-byte SHA-256 digest. The zero value is 32 zero bytes (not
// the digest of the empty string) and carries no special meaning.
type Hash [Size]byte

// Sum computes the Hash of payload. This is the only place the module
// touches crypto/sha256: hashing is a delegated primitive, not part of
// the index's engineering surface.
func Sum(payload []byte) Hash {
	return Hash(sha256.Sum256(payload))
}

// String renders h as 64 lowercase hex characters.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Less reports whether h sorts strictly before other under lexicographic
// byte comparison.
func (h Hash) Less(other Hash) bool {
	for i := range h {
		if h[i] != other[i] {
			return h[i] < other[i]
		}
	}
	return false
}

// Bytes returns the raw 32 bytes of h.
func (h Hash) Bytes() []byte {
	return h[:]
}

// FromBytes reinterprets exactly Size bytes of b as a Hash.
func FromBytes(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

// Parse decodes a 64-character hex string into a Hash; upper- and
// lowercase hex digits are both accepted. It fails with
// common.ErrInvalidHash for anything else, matching the "Format" error
// category: malformed hash string.
func Parse(s string) (Hash, error) {
	if len(s) != Size*2 {
		return Hash{}, fmt.Errorf("%w: %q has length %d, want %d", common.ErrInvalidHash, s, len(s), Size*2)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %v", common.ErrInvalidHash, err)
	}
	return FromBytes(raw), nil
}
