package btree

import (
	"github.com/skogkatt/wasteisland/hash"
	"github.com/skogkatt/wasteisland/offset"
)

const leafHeaderSize = 1 // node type byte only

// LeafNode maps Hash to Offset: the bottom level of the tree, pointing
// directly at data-file positions.
type LeafNode struct {
	*basicNode[hash.Hash, offset.Offset]
}

// NewLeafNode wraps page as a LeafNode view. The page must carry
// NodeTypeLeaf in its first byte before the view is used, either from a
// prior Init on disk or from calling Init on the returned view.
func NewLeafNode(page *Page) *LeafNode {
	return &LeafNode{newBasicNode[hash.Hash, offset.Offset](page, leafHeaderSize, hashCodec, offsetCodec, lessHash)}
}

// Init marks the page as a leaf and sets up an empty record set.
func (l *LeafNode) Init() {
	l.page.Bytes()[0] = byte(NodeTypeLeaf)
	l.initRecords()
	l.page.MakeDirty()
}

// RightestKey returns the largest key currently stored, if any.
func (l *LeafNode) RightestKey() (hash.Hash, bool) {
	k, _, ok := l.RightestRecord()
	return k, ok
}
