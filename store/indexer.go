package store

import (
	"go.uber.org/zap"

	"github.com/skogkatt/wasteisland/btree"
	"github.com/skogkatt/wasteisland/hash"
	"github.com/skogkatt/wasteisland/offset"
)

// indexer wraps the BTree with the Hash/Offset-typed surface Database
// actually calls, keeping btree.BTree's PageId/RecordId-level vocabulary
// out of the façade. Grounded on original_source's indexer.rs, which
// plays the same role over the Rust BTree.
type indexer struct {
	tree *btree.BTree
}

func openIndexer(path string, log *zap.Logger) (*indexer, error) {
	tree, err := btree.Open(path, log)
	if err != nil {
		return nil, err
	}
	return &indexer{tree: tree}, nil
}

func (ix *indexer) put(h hash.Hash, off offset.Offset) error {
	return ix.tree.Put(h, off)
}

func (ix *indexer) get(h hash.Hash) (offset.Offset, error) {
	return ix.tree.Get(h)
}

func (ix *indexer) list() ([]hash.Hash, error) {
	return ix.tree.List()
}

func (ix *indexer) close() error {
	return ix.tree.Close()
}
