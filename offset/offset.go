// Package offset implements the byte-position type the index maps
// hashes to: a position in the data file where a payload's length
// header begins.
package offset

// Offset is an unsigned 64-bit byte offset into the data file.
type Offset uint64

// Size is the on-disk width of an Offset, little-endian.
const Size = 8
