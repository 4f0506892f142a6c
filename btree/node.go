package btree

import "github.com/skogkatt/wasteisland/common"

// codec describes how to turn a fixed-width value of type T into bytes
// on the page and back. BasicNode is generic over the Go type parameter
// but still needs a concrete width and encoding per type, which Go's
// type system has no way to derive from T alone - so the codec is
// supplied once, at construction, rather than reinvented per method.
type codec[T any] struct {
	size   int
	encode func(T, []byte)
	decode func([]byte) T
}

// basicNode is the generic slotted-page engine described by spec.md
// §4.3: an ordered collection of fixed-size (K, V) records living
// inside one Page, with a free-list allocator and binary-search
// lookup. H is not a Go type parameter here - the embedded header is
// whatever fixed bytes the wrapping node type (head/leaf/internal)
// writes at offset 0; basicNode only owns the bytes from headerSize
// onward: a 1-byte records_length, a 1-byte first_free_record_id, the
// slot directory, and the record heap.
type basicNode[K comparable, V any] struct {
	page       *Page
	headerSize int // width of the embedding node's own header, H
	capacity   int
	recordSize int
	keyCodec   codec[K]
	valCodec   codec[V]
	less       func(a, b K) bool
}

func newBasicNode[K comparable, V any](page *Page, headerSize int, keyCodec codec[K], valCodec codec[V], less func(a, b K) bool) *basicNode[K, V] {
	recordSize := keyCodec.size + valCodec.size
	capacity := (Size - headerSize - 2) / (recordSize + 1)
	if capacity > 255 {
		capacity = 255
	}
	return &basicNode[K, V]{
		page:       page,
		headerSize: headerSize,
		capacity:   capacity,
		recordSize: recordSize,
		keyCodec:   keyCodec,
		valCodec:   valCodec,
		less:       less,
	}
}

// Layout offsets, relative to the start of the page.
func (n *basicNode[K, V]) recordsLengthOffset() int { return n.headerSize }
func (n *basicNode[K, V]) firstFreeOffset() int     { return n.headerSize + 1 }
func (n *basicNode[K, V]) slotDirOffset() int       { return n.headerSize + 2 }

// recordOffset returns the byte offset of record id's payload, carved
// from the tail of the page: record 0 is the last RecordSize bytes of
// the page, record 1 the RecordSize bytes before that, and so on.
func (n *basicNode[K, V]) recordOffset(id RecordId) int {
	return Size - n.recordSize*(int(id)+1)
}

// initRecords zeroes the slot directory and sets up one free-list entry
// spanning the full capacity.
func (n *basicNode[K, V]) initRecords() {
	n.setRecordsLength(0)
	n.setFirstFreeRecordId(0)
	n.writeFreeRecord(0, n.capacity, InvalidRecordId)
	n.page.MakeDirty()
}

func (n *basicNode[K, V]) Len() int      { return n.recordsLength() }
func (n *basicNode[K, V]) Cap() int      { return n.capacity }
func (n *basicNode[K, V]) IsFull() bool  { return n.recordsLength() >= n.capacity }
func (n *basicNode[K, V]) IsEmpty() bool { return n.recordsLength() == 0 }

func (n *basicNode[K, V]) recordsLength() int {
	return int(n.page.buf[n.recordsLengthOffset()])
}

func (n *basicNode[K, V]) setRecordsLength(v int) {
	n.page.buf[n.recordsLengthOffset()] = byte(v)
}

func (n *basicNode[K, V]) firstFreeRecordId() RecordId {
	return RecordId(n.page.buf[n.firstFreeOffset()])
}

func (n *basicNode[K, V]) setFirstFreeRecordId(id RecordId) {
	n.page.buf[n.firstFreeOffset()] = byte(id)
}

func (n *basicNode[K, V]) slotAt(i int) RecordId {
	return RecordId(n.page.buf[n.slotDirOffset()+i])
}

func (n *basicNode[K, V]) setSlotAt(i int, id RecordId) {
	n.page.buf[n.slotDirOffset()+i] = byte(id)
}

func (n *basicNode[K, V]) keyAt(id RecordId) K {
	off := n.recordOffset(id)
	return n.keyCodec.decode(n.page.buf[off : off+n.keyCodec.size])
}

func (n *basicNode[K, V]) valueAt(id RecordId) V {
	off := n.recordOffset(id) + n.keyCodec.size
	return n.valCodec.decode(n.page.buf[off : off+n.valCodec.size])
}

func (n *basicNode[K, V]) writeRecord(id RecordId, key K, value V) {
	off := n.recordOffset(id)
	n.keyCodec.encode(key, n.page.buf[off:off+n.keyCodec.size])
	n.valCodec.encode(value, n.page.buf[off+n.keyCodec.size:off+n.recordSize])
}

func (n *basicNode[K, V]) writeValue(id RecordId, value V) {
	off := n.recordOffset(id) + n.keyCodec.size
	n.valCodec.encode(value, n.page.buf[off:off+n.valCodec.size])
}

// Free-list records occupy the first two bytes of an otherwise-unused
// record slot: {length byte, next RecordId}.
func (n *basicNode[K, V]) readFreeRecord(id RecordId) (length int, next RecordId) {
	off := n.recordOffset(id)
	return int(n.page.buf[off]), RecordId(n.page.buf[off+1])
}

func (n *basicNode[K, V]) writeFreeRecord(id RecordId, length int, next RecordId) {
	off := n.recordOffset(id)
	n.page.buf[off] = byte(length)
	n.page.buf[off+1] = byte(next)
}

// allocNewRecord carves one slot from the head of the free list: if the
// head run has length 1, the list head advances to next; otherwise the
// run is shrunk by one from the tail and the head's own metadata is
// left intact.
func (n *basicNode[K, V]) allocNewRecord() RecordId {
	head := n.firstFreeRecordId()
	length, next := n.readFreeRecord(head)
	if length == 1 {
		n.setFirstFreeRecordId(next)
		return head
	}
	ret := RecordId(int(head) + length - 1)
	n.writeFreeRecord(head, length-1, next)
	return ret
}

// deallocRecord pushes a length-1 free node at the front of the list.
func (n *basicNode[K, V]) deallocRecord(id RecordId) {
	oldHead := n.firstFreeRecordId()
	n.writeFreeRecord(id, 1, oldHead)
	n.setFirstFreeRecordId(id)
}

// lowerBound returns the left-most slot-directory position whose key is
// not less than key. Equal keys return the left-most position, which is
// what lets Put overwrite in place.
func (n *basicNode[K, V]) lowerBound(key K) int {
	lo, hi := 0, n.recordsLength()
	for lo < hi {
		mid := (lo + hi) / 2
		if n.less(n.keyAt(n.slotAt(mid)), key) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (n *basicNode[K, V]) equal(a, b K) bool {
	return !n.less(a, b) && !n.less(b, a)
}

// Get returns the value stored for key, if any.
func (n *basicNode[K, V]) Get(key K) (V, bool) {
	pos := n.lowerBound(key)
	if pos < n.recordsLength() {
		if rid := n.slotAt(pos); n.equal(n.keyAt(rid), key) {
			return n.valueAt(rid), true
		}
	}
	var zero V
	return zero, false
}

// GetLowerBoundRecord returns the slot at-or-after key, without
// requiring equality. Used by InternalNode.Get.
func (n *basicNode[K, V]) GetLowerBoundRecord(key K) (K, V, bool) {
	pos := n.lowerBound(key)
	if pos < n.recordsLength() {
		rid := n.slotAt(pos)
		return n.keyAt(rid), n.valueAt(rid), true
	}
	var zeroK K
	var zeroV V
	return zeroK, zeroV, false
}

// Put inserts key/value, overwriting in place if key is already present.
// Requires !IsFull() for a genuinely new key.
func (n *basicNode[K, V]) Put(key K, value V) error {
	pos := n.lowerBound(key)
	length := n.recordsLength()
	if pos < length {
		if rid := n.slotAt(pos); n.equal(n.keyAt(rid), key) {
			n.writeValue(rid, value)
			n.page.MakeDirty()
			return nil
		}
	}
	if n.IsFull() {
		return common.ErrNodeFull
	}
	rid := n.allocNewRecord()
	n.writeRecord(rid, key, value)
	for i := length; i > pos; i-- {
		n.setSlotAt(i, n.slotAt(i-1))
	}
	n.setSlotAt(pos, rid)
	n.setRecordsLength(length + 1)
	n.page.MakeDirty()
	return nil
}

// insertAtFront inserts key/value as the new smallest record, used only
// by Split to rebuild the sibling in ascending order from repeated
// largest-first pops.
func (n *basicNode[K, V]) insertAtFront(key K, value V) {
	rid := n.allocNewRecord()
	n.writeRecord(rid, key, value)
	length := n.recordsLength()
	for i := length; i > 0; i-- {
		n.setSlotAt(i, n.slotAt(i-1))
	}
	n.setSlotAt(0, rid)
	n.setRecordsLength(length + 1)
	n.page.MakeDirty()
}

// RightestRecord returns the largest-key record without removing it.
func (n *basicNode[K, V]) RightestRecord() (K, V, bool) {
	length := n.recordsLength()
	if length == 0 {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}
	rid := n.slotAt(length - 1)
	return n.keyAt(rid), n.valueAt(rid), true
}

// PopRightestRecord removes and returns the largest-key record.
func (n *basicNode[K, V]) PopRightestRecord() (K, V, bool) {
	length := n.recordsLength()
	if length == 0 {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}
	rid := n.slotAt(length - 1)
	key, value := n.keyAt(rid), n.valueAt(rid)
	n.deallocRecord(rid)
	n.setRecordsLength(length - 1)
	n.page.MakeDirty()
	return key, value, true
}

// Split moves the top half (by count) of self's records to rhs, largest
// first, rebuilding rhs in ascending order as it goes. Requires
// rhs.IsEmpty() and !self.IsEmpty().
func (n *basicNode[K, V]) Split(rhs *basicNode[K, V]) error {
	if !rhs.IsEmpty() {
		return common.ErrNodeFull
	}
	if n.IsEmpty() {
		return common.ErrNodeEmpty
	}
	numToMove := n.recordsLength() / 2
	for i := 0; i < numToMove; i++ {
		key, value, _ := n.PopRightestRecord()
		rhs.insertAtFront(key, value)
	}
	return nil
}

// Record is one (key, value) pair surfaced by Iterate.
type Record[K comparable, V any] struct {
	Key   K
	Value V
}

// Iterate returns every record in ascending key order.
func (n *basicNode[K, V]) Iterate() []Record[K, V] {
	length := n.recordsLength()
	out := make([]Record[K, V], 0, length)
	for i := 0; i < length; i++ {
		rid := n.slotAt(i)
		out = append(out, Record[K, V]{Key: n.keyAt(rid), Value: n.valueAt(rid)})
	}
	return out
}
