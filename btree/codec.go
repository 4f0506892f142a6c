package btree

import (
	"encoding/binary"

	"github.com/skogkatt/wasteisland/hash"
	"github.com/skogkatt/wasteisland/offset"
)

// On-disk integers are little-endian throughout the index file. The
// source spec leaves this an open question with little-endian
// recommended; the teacher codebase's own hashindex/segment.go already
// encodes its record header with binary.LittleEndian, so this module
// follows that precedent rather than introducing a second convention.

var hashCodec = codec[hash.Hash]{
	size: hash.Size,
	encode: func(h hash.Hash, buf []byte) {
		copy(buf, h.Bytes())
	},
	decode: func(buf []byte) hash.Hash {
		return hash.FromBytes(buf)
	},
}

var offsetCodec = codec[offset.Offset]{
	size: offset.Size,
	encode: func(o offset.Offset, buf []byte) {
		binary.LittleEndian.PutUint64(buf, uint64(o))
	},
	decode: func(buf []byte) offset.Offset {
		return offset.Offset(binary.LittleEndian.Uint64(buf))
	},
}

var pageIdCodec = codec[PageId]{
	size: 4,
	encode: func(id PageId, buf []byte) {
		binary.LittleEndian.PutUint32(buf, uint32(id))
	},
	decode: func(buf []byte) PageId {
		return PageId(binary.LittleEndian.Uint32(buf))
	},
}

func lessHash(a, b hash.Hash) bool { return a.Less(b) }
