package btree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skogkatt/wasteisland/hash"
	"github.com/skogkatt/wasteisland/offset"
)

func newTestLeaf(id PageId) *LeafNode {
	l := NewLeafNode(newUninitedPage(id))
	l.Init()
	return l
}

func keyFor(i int) hash.Hash {
	var h hash.Hash
	for j := range h {
		h[j] = byte(i)
	}
	return h
}

func TestBasicNode_PutGetRoundTrip(t *testing.T) {
	leaf := newTestLeaf(1)
	require.True(t, leaf.IsEmpty())

	require.NoError(t, leaf.Put(keyFor(5), offset.Offset(500)))
	require.NoError(t, leaf.Put(keyFor(1), offset.Offset(100)))
	require.NoError(t, leaf.Put(keyFor(9), offset.Offset(900)))

	v, ok := leaf.Get(keyFor(5))
	require.True(t, ok)
	require.Equal(t, offset.Offset(500), v)

	_, ok = leaf.Get(keyFor(7))
	require.False(t, ok)
}

func TestBasicNode_KeyOrderingAscending(t *testing.T) {
	leaf := newTestLeaf(1)
	order := []int{5, 1, 9, 3, 7}
	for _, i := range order {
		require.NoError(t, leaf.Put(keyFor(i), offset.Offset(i)))
	}
	recs := leaf.Iterate()
	require.Len(t, recs, len(order))
	for i := 1; i < len(recs); i++ {
		require.True(t, recs[i-1].Key.Less(recs[i].Key), "records must be strictly ascending")
	}
}

func TestBasicNode_OverwriteInPlace(t *testing.T) {
	leaf := newTestLeaf(1)
	require.NoError(t, leaf.Put(keyFor(1), offset.Offset(100)))
	lenBefore := leaf.Len()
	require.NoError(t, leaf.Put(keyFor(1), offset.Offset(999)))
	require.Equal(t, lenBefore, leaf.Len(), "overwrite must not allocate a new record")

	v, ok := leaf.Get(keyFor(1))
	require.True(t, ok)
	require.Equal(t, offset.Offset(999), v)
}

func TestBasicNode_CapacityInvariant(t *testing.T) {
	leaf := newTestLeaf(1)
	cap := leaf.Cap()
	require.LessOrEqual(t, cap, 255)

	for i := 0; i < cap; i++ {
		require.NoError(t, leaf.Put(keyFor(i), offset.Offset(i)))
	}
	require.True(t, leaf.IsFull())
	require.Equal(t, cap, leaf.Len())

	err := leaf.Put(keyFor(cap+1), offset.Offset(1))
	require.Error(t, err)
}

func TestBasicNode_SplitMovesTopHalfAscending(t *testing.T) {
	leaf := newTestLeaf(1)
	for i := 0; i < 10; i++ {
		require.NoError(t, leaf.Put(keyFor(i), offset.Offset(i)))
	}

	sibling := newTestLeaf(2)
	require.NoError(t, leaf.Split(sibling.basicNode))

	require.Equal(t, 5, leaf.Len())
	require.Equal(t, 5, sibling.Len())

	selfRecs := leaf.Iterate()
	siblingRecs := sibling.Iterate()
	for i := 1; i < len(siblingRecs); i++ {
		require.True(t, siblingRecs[i-1].Key.Less(siblingRecs[i].Key))
	}
	require.True(t, selfRecs[len(selfRecs)-1].Key.Less(siblingRecs[0].Key),
		"every key remaining in self must be less than every key moved to sibling")
}

func TestBasicNode_FreeListIntegrityAfterChurn(t *testing.T) {
	leaf := newTestLeaf(1)
	for i := 0; i < 20; i++ {
		require.NoError(t, leaf.Put(keyFor(i), offset.Offset(i)))
	}
	sibling := newTestLeaf(2)
	require.NoError(t, leaf.Split(sibling.basicNode))

	seen := make(map[RecordId]bool)
	length := leaf.recordsLength()
	for i := 0; i < length; i++ {
		seen[leaf.slotAt(i)] = true
	}

	free := make(map[RecordId]bool)
	id := leaf.firstFreeRecordId()
	for id != InvalidRecordId {
		l, next := leaf.readFreeRecord(id)
		for k := 0; k < l; k++ {
			free[RecordId(int(id)+k)] = true
		}
		id = next
	}

	require.Equal(t, leaf.Cap(), len(seen)+len(free))
	for r := range seen {
		require.False(t, free[r], "allocated and free sets must be disjoint")
	}
}

func TestBasicNode_LowerBoundTieBreakIsLeftmost(t *testing.T) {
	leaf := newTestLeaf(1)
	require.NoError(t, leaf.Put(keyFor(1), offset.Offset(1)))
	require.NoError(t, leaf.Put(keyFor(3), offset.Offset(3)))
	require.NoError(t, leaf.Put(keyFor(5), offset.Offset(5)))

	require.Equal(t, 1, leaf.lowerBound(keyFor(3)))
	require.Equal(t, 0, leaf.lowerBound(keyFor(0)))
	require.Equal(t, 3, leaf.lowerBound(keyFor(6)))
}

func TestInternalNode_GetReturnsRightestWhenNoBoundary(t *testing.T) {
	page := newUninitedPage(1)
	n := NewInternalNode(page)
	n.Init(PageId(42))
	require.NoError(t, n.Put(keyFor(5), PageId(5)))

	_, child, has := n.Get(keyFor(9))
	require.False(t, has)
	require.Equal(t, PageId(42), child)

	boundaryKey, child, has := n.Get(keyFor(2))
	require.True(t, has)
	require.Equal(t, keyFor(5), boundaryKey)
	require.Equal(t, PageId(5), child)
}
