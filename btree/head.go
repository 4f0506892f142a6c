package btree

import (
	"encoding/binary"
	"fmt"

	"github.com/skogkatt/wasteisland/common"
)

// NodeType is the first byte of every node page, distinguishing head,
// leaf, and internal pages.
type NodeType uint8

const (
	NodeTypeHead     NodeType = 1
	NodeTypeLeaf     NodeType = 2
	NodeTypeInternal NodeType = 3
)

const (
	headOffsetType    = 0
	headOffsetVersion = 1
	headOffsetMagic   = 2
	headMagicLen      = 62
	headOffsetRoot    = headOffsetMagic + headMagicLen // 64
	headVersion       = 0
)

// headMagic identifies an index file as belonging to this format. It is
// NUL-padded to headMagicLen bytes on disk.
const headMagic = "skogkatt.org/WasteIsland/B-Plus-Tree"

// HeadNode is a thin, fixed-layout view over page 0: node type, format
// version, a magic string, and the current root page id. Unlike
// LeafNode/InternalNode it does not use the generic BasicNode slotted
// engine - there are no records here, just four fixed fields.
type HeadNode struct {
	page *Page
}

// NewHeadNode wraps page (which must be PageId 0) as a HeadNode view.
func NewHeadNode(page *Page) *HeadNode {
	return &HeadNode{page: page}
}

// Init writes the magic bytes, version 0, and rootPageId.
func (h *HeadNode) Init(rootPageId PageId) {
	buf := h.page.Bytes()
	buf[headOffsetType] = byte(NodeTypeHead)
	buf[headOffsetVersion] = headVersion
	var magic [headMagicLen]byte
	copy(magic[:], headMagic)
	copy(buf[headOffsetMagic:headOffsetMagic+headMagicLen], magic[:])
	binary.LittleEndian.PutUint32(buf[headOffsetRoot:], uint32(rootPageId))
	h.page.MakeDirty()
}

// Check verifies the head page's magic and version, returning
// common.ErrInvalidHead if either is wrong.
func (h *HeadNode) Check() error {
	buf := h.page.Bytes()
	if NodeType(buf[headOffsetType]) != NodeTypeHead {
		return fmt.Errorf("%w: wrong node type byte", common.ErrInvalidHead)
	}
	if buf[headOffsetVersion] != headVersion {
		return fmt.Errorf("%w: unsupported version %d", common.ErrInvalidHead, buf[headOffsetVersion])
	}
	var want [headMagicLen]byte
	copy(want[:], headMagic)
	got := buf[headOffsetMagic : headOffsetMagic+headMagicLen]
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("%w: magic mismatch", common.ErrInvalidHead)
		}
	}
	return nil
}

// RootPageId returns the current root page id.
func (h *HeadNode) RootPageId() PageId {
	return PageId(binary.LittleEndian.Uint32(h.page.Bytes()[headOffsetRoot:]))
}

// SetRootPageId updates the root page id after a root split.
func (h *HeadNode) SetRootPageId(id PageId) {
	binary.LittleEndian.PutUint32(h.page.Bytes()[headOffsetRoot:], uint32(id))
	h.page.MakeDirty()
}
