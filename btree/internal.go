package btree

import (
	"encoding/binary"

	"github.com/skogkatt/wasteisland/hash"
)

const (
	internalHeaderSize         = 5 // node type byte + rightest_page_id
	internalOffsetRightestPage = 1
)

// InternalNode maps Hash to PageId: each record (k_i, p_i) means every
// key reached through p_i is <= k_i. rightest_page_id is the unbounded-
// above child, for keys greater than every stored key.
type InternalNode struct {
	*basicNode[hash.Hash, PageId]
}

// NewInternalNode wraps page as an InternalNode view. A fresh page must
// be set up with Init on the returned view before other use.
func NewInternalNode(page *Page) *InternalNode {
	return &InternalNode{newBasicNode[hash.Hash, PageId](page, internalHeaderSize, hashCodec, pageIdCodec, lessHash)}
}

// Init marks the page as internal, sets rightestPageId, and sets up an
// empty record set.
func (n *InternalNode) Init(rightestPageId PageId) {
	buf := n.page.Bytes()
	buf[0] = byte(NodeTypeInternal)
	binary.LittleEndian.PutUint32(buf[internalOffsetRightestPage:], uint32(rightestPageId))
	n.initRecords()
	n.page.MakeDirty()
}

// RightestPageId returns the child for keys greater than every key
// stored in this node.
func (n *InternalNode) RightestPageId() PageId {
	return PageId(binary.LittleEndian.Uint32(n.page.Bytes()[internalOffsetRightestPage:]))
}

// SetRightestPageId updates the unbounded-above child.
func (n *InternalNode) SetRightestPageId(id PageId) {
	binary.LittleEndian.PutUint32(n.page.Bytes()[internalOffsetRightestPage:], uint32(id))
	n.page.MakeDirty()
}

// Get returns the lower-bound (key, child) pair for key if one exists
// in the record set; otherwise it returns (false, rightestPageId) -
// keys in this node are upper bounds for their child subtree, so
// "no record >= key" means the search continues through rightestPageId.
func (n *InternalNode) Get(key hash.Hash) (boundaryKey hash.Hash, child PageId, hasBoundary bool) {
	if k, v, ok := n.GetLowerBoundRecord(key); ok {
		return k, v, true
	}
	return hash.Hash{}, n.RightestPageId(), false
}
