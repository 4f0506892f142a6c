package btree

import (
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/skogkatt/wasteisland/common"
)

// Pager owns the index file for exactly one BTree. It maps PageId to
// Page, appends new pages, reads pages on demand, and writes back dirty
// pages. The cache is append-only for the pager's lifetime: there is no
// eviction. That trades memory for determinism under a workload whose
// index is small relative to RAM, and it means a *Page handle is never
// invalidated out from under a caller.
type Pager struct {
	mu       sync.RWMutex
	file     *os.File
	pagesLen uint32
	cache    map[PageId]*Page
	log      *zap.Logger
}

// OpenPager opens (or creates) the index file at path and infers
// pagesLen from its length.
func OpenPager(path string, log *zap.Logger) (*Pager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, common.Wrap("open index file", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, common.Wrap("stat index file", err)
	}
	return &Pager{
		file:     f,
		pagesLen: uint32(info.Size() / Size),
		cache:    make(map[PageId]*Page),
		log:      log,
	}, nil
}

// Len returns the number of pages currently in the file.
func (p *Pager) Len() PageId {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PageId(p.pagesLen)
}

// AppendEmptyUninitedPage seeks to end-of-file, writes Size arbitrary
// bytes, registers the new page in the cache and returns a shared
// handle. The returned page is dirty=false; the caller must initialise
// it (via a node's init) and call SyncPage once it is dirty.
func (p *Pager) AppendEmptyUninitedPage() (*Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := PageId(p.pagesLen)
	page := newUninitedPage(id)
	if _, err := p.file.WriteAt(page.buf[:], int64(id)*Size); err != nil {
		return nil, common.Wrap("append index page", err)
	}
	p.pagesLen++
	p.cache[id] = page
	p.log.Debug("appended index page", zap.Uint32("page_id", uint32(id)))
	return page, nil
}

// GetPage returns the cached handle for id if present; otherwise it
// reads exactly Size bytes from the file, caches, and returns it.
func (p *Pager) GetPage(id PageId) (*Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if page, ok := p.cache[id]; ok {
		return page, nil
	}

	page := newUninitedPage(id)
	if _, err := p.file.ReadAt(page.buf[:], int64(id)*Size); err != nil {
		return nil, common.Wrap("read index page", err)
	}
	p.cache[id] = page
	p.log.Debug("read index page from disk", zap.Uint32("page_id", uint32(id)))
	return page, nil
}

// SyncPage writes the page's full buffer to its file offset and clears
// its dirty flag, if and only if the page is dirty.
func (p *Pager) SyncPage(page *Page) error {
	if !page.IsDirty() {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.file.WriteAt(page.buf[:], int64(page.id)*Size); err != nil {
		return common.Wrap("sync index page", err)
	}
	page.ClearDirty()
	p.log.Debug("synced index page", zap.Uint32("page_id", uint32(page.id)))
	return nil
}

// Close syncs nothing by itself (callers are expected to have synced
// every dirty page already) and closes the underlying file.
func (p *Pager) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return common.Wrap("close index file", p.file.Close())
}
