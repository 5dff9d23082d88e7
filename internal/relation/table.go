// Package relation is a minimal fixed-layout row store standing in for the
// "source relation" that a B+ tree index is built over. It is the external
// relation-scanner collaborator made concrete: just enough of a table to
// drive bulk build and to exercise the index engine end to end.
package relation

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/tuannm99/bptreeindex/internal/bufferpool"
	"github.com/tuannm99/bptreeindex/internal/storage"
)

var ErrTableClosed = errors.New("relation: table is closed")

// Table stores fixed-width rows packed contiguously across pages. Each row
// is rowWidth bytes wide; the table does not interpret its contents (an
// index reads its little-endian int32 key at the attribute byte offset it
// was built with).
// There is no per-row header: a table only ever grows by append, matching
// the bulk-build-then-scan lifecycle this package exists to serve.
type Table struct {
	BP       bufferpool.Manager
	RowWidth int

	rowsPerPage int
	count       atomic.Uint64

	closed atomic.Bool
}

// NewTable creates a table of fixed rowWidth-byte rows over bp.
func NewTable(bp bufferpool.Manager, rowWidth int) (*Table, error) {
	if rowWidth <= 0 || rowWidth > storage.PageSize {
		return nil, fmt.Errorf("relation: invalid row width %d", rowWidth)
	}
	return &Table{
		BP:          bp,
		RowWidth:    rowWidth,
		rowsPerPage: storage.PageSize / rowWidth,
	}, nil
}

// Insert appends row (must be exactly RowWidth bytes) and returns its id.
func (t *Table) Insert(row []byte) (storage.RecordId, error) {
	if err := t.ensureOpen(); err != nil {
		return storage.RecordId{}, err
	}
	if len(row) != t.RowWidth {
		return storage.RecordId{}, fmt.Errorf("relation: row must be %d bytes, got %d", t.RowWidth, len(row))
	}

	n := t.count.Add(1) - 1
	pageID := uint32(n/uint64(t.rowsPerPage)) + 1 // page 0 reserved, rows start at page 1
	slot := uint32(n % uint64(t.rowsPerPage))

	p, err := t.BP.GetPage(pageID)
	if err != nil {
		return storage.RecordId{}, err
	}
	off := int(slot) * t.RowWidth
	copy(p.Buf[off:off+t.RowWidth], row)
	if err := t.BP.Unpin(p, true); err != nil {
		return storage.RecordId{}, err
	}
	return storage.RecordId{PageID: pageID, Slot: slot}, nil
}

// Get reads the row at id.
func (t *Table) Get(id storage.RecordId) ([]byte, error) {
	if err := t.ensureOpen(); err != nil {
		return nil, err
	}
	p, err := t.BP.GetPage(id.PageID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = t.BP.Unpin(p, false) }()

	off := int(id.Slot) * t.RowWidth
	out := make([]byte, t.RowWidth)
	copy(out, p.Buf[off:off+t.RowWidth])
	return out, nil
}

// Count returns the number of rows inserted so far.
func (t *Table) Count() uint64 { return t.count.Load() }

func (t *Table) Close() error {
	if t == nil {
		return nil
	}
	if t.closed.Swap(true) {
		return nil
	}
	return t.BP.FlushAll()
}

func (t *Table) ensureOpen() error {
	if t == nil || t.closed.Load() {
		return ErrTableClosed
	}
	return nil
}
