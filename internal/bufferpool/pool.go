// Package bufferpool implements the page cache the B+ tree engine pins and
// unpins pages through: the buffer manager collaborator spec.md §6 names.
package bufferpool

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/tuannm99/bptreeindex/internal/storage"
)

var (
	DefaultCapacity = 128

	// ErrNoFreeFrame is returned when every frame is pinned and none can be
	// evicted to satisfy a GetPage miss.
	ErrNoFreeFrame = errors.New("bufferpool: no free frame available (all pinned)")
)

// Manager is the buffer-manager contract an index or relation consumes:
// allocate_page/read_page/unpin_page/flush_file from spec.md §6, realized
// as GetPage (doubling as allocate, since StorageManager zero-fills a page
// number past current extent), Unpin, and FlushAll.
type Manager interface {
	GetPage(pageID uint32) (*storage.Page, error)
	Unpin(page *storage.Page, dirty bool) error
	FlushAll() error
}

var _ Manager = (*Pool)(nil)

// frame is one cached slot: a page plus its pin/dirty/CLOCK-reference
// bookkeeping.
type frame struct {
	pageID uint32
	page   *storage.Page
	dirty  bool
	pin    int32
	ref    bool // CLOCK second-chance bit
}

// Pool is a fixed-capacity buffer pool bound to a single FileSet — one
// index file or one relation file, never both at once. Each lifecycle
// object (an Index, a Table) owns its own Pool rather than sharing a
// cache keyed across files, since this module never has more than a
// handful of files open concurrently and a cross-file cache would only
// add bookkeeping this single-tenant domain has no use for. Eviction uses
// CLOCK (second-chance): a frame whose reference bit is set survives one
// sweep, then becomes evictable on the next.
type Pool struct {
	sm *storage.StorageManager
	fs storage.FileSet

	mu       sync.Mutex
	frames   []*frame
	byPageID map[uint32]int
	hand     int
}

// NewPool creates a Pool of the given capacity (DefaultCapacity if <= 0)
// bound to fs.
func NewPool(sm *storage.StorageManager, fs storage.FileSet, capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{
		sm:       sm,
		fs:       fs,
		frames:   make([]*frame, capacity),
		byPageID: make(map[uint32]int),
	}
}

// GetPage pins and returns the page at pageID, loading it from disk (or
// reading back a zero-filled hole, for a not-yet-written page — see
// spec.md §4.2's allocate-via-hole note) on a cache miss.
func (p *Pool) GetPage(pageID uint32) (*storage.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if idx, ok := p.byPageID[pageID]; ok {
		f := p.frames[idx]
		f.pin++
		f.ref = true
		return f.page, nil
	}

	if idx := p.freeSlotLocked(); idx != -1 {
		page, err := p.sm.LoadPage(p.fs, pageID)
		if err != nil {
			return nil, err
		}
		p.frames[idx] = &frame{pageID: pageID, page: page, pin: 1, ref: true}
		p.byPageID[pageID] = idx
		return page, nil
	}

	victimIdx, err := p.evictLocked()
	if err != nil {
		return nil, err
	}
	victim := p.frames[victimIdx]
	if victim.dirty {
		if err := p.sm.SavePage(p.fs, victim.pageID, *victim.page); err != nil {
			return nil, err
		}
	}
	delete(p.byPageID, victim.pageID)

	page, err := p.sm.LoadPage(p.fs, pageID)
	if err != nil {
		return nil, err
	}
	victim.pageID = pageID
	victim.page = page
	victim.dirty = false
	victim.pin = 1
	victim.ref = true
	p.byPageID[pageID] = victimIdx
	return page, nil
}

func (p *Pool) freeSlotLocked() int {
	for i, f := range p.frames {
		if f == nil {
			return i
		}
	}
	return -1
}

// evictLocked sweeps the CLOCK hand for a pinned=0 frame, giving any
// referenced frame one second chance before choosing it.
func (p *Pool) evictLocked() (int, error) {
	n := len(p.frames)
	for scanned := 0; scanned < 2*n; scanned++ {
		idx := p.hand
		p.hand = (p.hand + 1) % n
		f := p.frames[idx]
		if f == nil || f.pin != 0 {
			continue
		}
		if f.ref {
			f.ref = false
			continue
		}
		return idx, nil
	}
	slog.Debug("bufferpool: eviction found no victim", "base", baseNameOf(p.fs))
	return -1, ErrNoFreeFrame
}

// Unpin decreases page's pin count, marking it dirty if requested.
func (p *Pool) Unpin(page *storage.Page, dirty bool) error {
	if page == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	idx, ok := p.byPageID[page.PageID()]
	if !ok {
		return nil
	}
	f := p.frames[idx]
	if dirty {
		f.dirty = true
	}
	if f.pin > 0 {
		f.pin--
	}
	return nil
}

// FlushAll writes every dirty frame back through the StorageManager.
func (p *Pool) FlushAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, f := range p.frames {
		if f == nil || !f.dirty {
			continue
		}
		if err := p.sm.SavePage(p.fs, f.pageID, *f.page); err != nil {
			return err
		}
		f.dirty = false
	}
	return nil
}

func baseNameOf(fs storage.FileSet) string {
	if lfs, ok := fs.(storage.LocalFileSet); ok {
		return lfs.Base
	}
	return ""
}
