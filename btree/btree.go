// Package btree implements the on-disk paged B+Tree index: a fixed
// Size-byte Page, a Pager that caches and syncs pages, a generic
// slotted-page node engine (basicNode) shared by three specialisations
// (HeadNode, LeafNode, InternalNode), and the BTree orchestrator that
// ties them together with preemptive top-down splitting.
package btree

import (
	"go.uber.org/zap"

	"github.com/skogkatt/wasteisland/common"
	"github.com/skogkatt/wasteisland/hash"
	"github.com/skogkatt/wasteisland/offset"
)

const headPageId PageId = 0
const initialRootPageId PageId = 1

// BTree is a Hash -> Offset index backed by one index file.
type BTree struct {
	pager *Pager
	head  *HeadNode
	log   *zap.Logger
}

// Open creates or opens the index file at path. A freshly created file
// gets a head page and an empty leaf root; an existing file's head page
// is validated via Check.
func Open(path string, log *zap.Logger) (*BTree, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pager, err := OpenPager(path, log)
	if err != nil {
		return nil, err
	}

	if pager.Len() == 0 {
		headPage, err := pager.AppendEmptyUninitedPage()
		if err != nil {
			return nil, common.Wrap("create head page", err)
		}
		rootPage, err := pager.AppendEmptyUninitedPage()
		if err != nil {
			return nil, common.Wrap("create root leaf page", err)
		}

		head := NewHeadNode(headPage)
		head.Init(initialRootPageId)
		root := NewLeafNode(rootPage)
		root.Init()

		if err := pager.SyncPage(headPage); err != nil {
			return nil, err
		}
		if err := pager.SyncPage(rootPage); err != nil {
			return nil, err
		}

		return &BTree{pager: pager, head: head, log: log}, nil
	}

	headPage, err := pager.GetPage(headPageId)
	if err != nil {
		return nil, common.Wrap("read head page", err)
	}
	head := NewHeadNode(headPage)
	if err := head.Check(); err != nil {
		return nil, err
	}
	return &BTree{pager: pager, head: head, log: log}, nil
}

// Close closes the underlying index file. Callers are expected to have
// no further pending mutations: every BTree.Put syncs its own pages
// before returning, so there is nothing left to flush here.
func (t *BTree) Close() error {
	return t.pager.Close()
}

func nodeTypeOf(page *Page) NodeType {
	return NodeType(page.Bytes()[0])
}

// splitResult is the "SplitMe(promoted_key, sibling_page_id)" / "Alright"
// return value from spec.md's put algorithm, collapsed into one struct:
// Split == false means "Alright", nothing further to propagate upward.
type splitResult struct {
	Split       bool
	PromotedKey hash.Hash
	NewPageId   PageId
}

// Put inserts or overwrites key -> value, descending from the root with
// preemptive top-down splitting: any full node encountered is split
// before descent continues, and the caller re-descends once the split
// has been absorbed by the parent.
func (t *BTree) Put(key hash.Hash, value offset.Offset) error {
	for {
		result, err := t.insertStep(t.head.RootPageId(), key, value)
		if err != nil {
			return err
		}
		if !result.Split {
			return nil
		}

		newRootPage, err := t.pager.AppendEmptyUninitedPage()
		if err != nil {
			return common.Wrap("allocate new root page", err)
		}
		oldRootId := t.head.RootPageId()
		newRoot := NewInternalNode(newRootPage)
		newRoot.Init(result.NewPageId)
		if err := newRoot.Put(result.PromotedKey, oldRootId); err != nil {
			return common.Wrap("insert promoted key into new root", err)
		}
		if err := t.pager.SyncPage(newRootPage); err != nil {
			return err
		}

		t.head.SetRootPageId(newRootPage.Id())
		headPage, err := t.pager.GetPage(headPageId)
		if err != nil {
			return err
		}
		if err := t.pager.SyncPage(headPage); err != nil {
			return err
		}
		// loop again: re-descend from the new root to actually place key/value
	}
}

// insertStep visits the node at pageId. If the node is full it splits
// first and returns a SplitMe result without placing key/value at this
// level. Otherwise it either inserts directly (leaf) or recurses into
// the appropriate child (internal), absorbing and re-descending past
// any split the child reports.
func (t *BTree) insertStep(pageId PageId, key hash.Hash, value offset.Offset) (splitResult, error) {
	page, err := t.pager.GetPage(pageId)
	if err != nil {
		return splitResult{}, err
	}

	switch nodeTypeOf(page) {
	case NodeTypeLeaf:
		leaf := NewLeafNode(page)
		if leaf.IsFull() {
			return t.splitLeaf(leaf)
		}
		if err := leaf.Put(key, value); err != nil {
			return splitResult{}, common.Wrap("insert into leaf", err)
		}
		if err := t.pager.SyncPage(page); err != nil {
			return splitResult{}, err
		}
		return splitResult{}, nil

	case NodeTypeInternal:
		internal := NewInternalNode(page)
		if internal.IsFull() {
			return t.splitInternal(internal)
		}

		boundaryKey, childId, hasBoundary := internal.Get(key)
		childResult, err := t.insertStep(childId, key, value)
		if err != nil {
			return splitResult{}, err
		}
		if !childResult.Split {
			return splitResult{}, nil
		}

		if !hasBoundary {
			oldRightest := internal.RightestPageId()
			internal.SetRightestPageId(childResult.NewPageId)
			if err := internal.Put(childResult.PromotedKey, oldRightest); err != nil {
				return splitResult{}, common.Wrap("insert promoted key (rightest channel)", err)
			}
		} else {
			if err := internal.Put(childResult.PromotedKey, childId); err != nil {
				return splitResult{}, common.Wrap("insert promoted key", err)
			}
			if err := internal.Put(boundaryKey, childResult.NewPageId); err != nil {
				return splitResult{}, common.Wrap("re-point old boundary to new sibling", err)
			}
		}
		if err := t.pager.SyncPage(page); err != nil {
			return splitResult{}, err
		}
		// re-descend: the split changed which child now owns key.
		return t.insertStep(pageId, key, value)

	default:
		return splitResult{}, common.ErrWrongNodeType
	}
}

func (t *BTree) splitLeaf(leaf *LeafNode) (splitResult, error) {
	siblingPage, err := t.pager.AppendEmptyUninitedPage()
	if err != nil {
		return splitResult{}, common.Wrap("allocate leaf sibling page", err)
	}
	sibling := NewLeafNode(siblingPage)
	sibling.Init()

	if err := leaf.Split(sibling.basicNode); err != nil {
		return splitResult{}, common.Wrap("split leaf", err)
	}
	if err := t.pager.SyncPage(siblingPage); err != nil {
		return splitResult{}, err
	}
	if err := t.pager.SyncPage(leaf.page); err != nil {
		return splitResult{}, err
	}

	promotedKey, ok := leaf.RightestKey()
	if !ok {
		return splitResult{}, common.ErrNodeEmpty
	}
	return splitResult{Split: true, PromotedKey: promotedKey, NewPageId: siblingPage.Id()}, nil
}

func (t *BTree) splitInternal(node *InternalNode) (splitResult, error) {
	siblingPage, err := t.pager.AppendEmptyUninitedPage()
	if err != nil {
		return splitResult{}, common.Wrap("allocate internal sibling page", err)
	}
	sibling := NewInternalNode(siblingPage)
	sibling.Init(InvalidPageId) // overwritten below

	if err := node.Split(sibling.basicNode); err != nil {
		return splitResult{}, common.Wrap("split internal node", err)
	}

	sibling.SetRightestPageId(node.RightestPageId())
	promotedKey, promotedChild, ok := node.PopRightestRecord()
	if !ok {
		return splitResult{}, common.ErrNodeEmpty
	}
	node.SetRightestPageId(promotedChild)

	if err := t.pager.SyncPage(siblingPage); err != nil {
		return splitResult{}, err
	}
	if err := t.pager.SyncPage(node.page); err != nil {
		return splitResult{}, err
	}

	return splitResult{Split: true, PromotedKey: promotedKey, NewPageId: siblingPage.Id()}, nil
}

// Get retrieves the Offset stored for key, following lower-bound
// descent at each internal node and a plain lookup at the leaf.
func (t *BTree) Get(key hash.Hash) (offset.Offset, error) {
	pageId := t.head.RootPageId()
	for {
		page, err := t.pager.GetPage(pageId)
		if err != nil {
			return 0, err
		}
		switch nodeTypeOf(page) {
		case NodeTypeLeaf:
			value, ok := NewLeafNode(page).Get(key)
			if !ok {
				return 0, common.ErrHashNotFound
			}
			return value, nil
		case NodeTypeInternal:
			_, childId, _ := NewInternalNode(page).Get(key)
			pageId = childId
		default:
			return 0, common.ErrWrongNodeType
		}
	}
}

// List returns every hash stored in the tree, in ascending order, via a
// left-to-right scan of the leaf level.
func (t *BTree) List() ([]hash.Hash, error) {
	var out []hash.Hash
	var walk func(pageId PageId) error
	walk = func(pageId PageId) error {
		page, err := t.pager.GetPage(pageId)
		if err != nil {
			return err
		}
		switch nodeTypeOf(page) {
		case NodeTypeLeaf:
			for _, rec := range NewLeafNode(page).Iterate() {
				out = append(out, rec.Key)
			}
			return nil
		case NodeTypeInternal:
			internal := NewInternalNode(page)
			for _, rec := range internal.Iterate() {
				if err := walk(rec.Value); err != nil {
					return err
				}
			}
			return walk(internal.RightestPageId())
		default:
			return common.ErrWrongNodeType
		}
	}
	if err := walk(t.head.RootPageId()); err != nil {
		return nil, common.Wrap("list index", err)
	}
	return out, nil
}
