package relation

import (
	"errors"

	"github.com/tuannm99/bptreeindex/internal/storage"
)

// ErrEndOfFile is returned by Scanner.ScanNext once every row has been
// produced. It is the only error an index bulk build catches internally.
var ErrEndOfFile = errors.New("relation: end of file")

// Scanner enumerates the rows of a Table in insertion order, the external
// "relation scanner" contract an index bulk build consumes.
type Scanner interface {
	// ScanNext advances to the next row and returns its id, or ErrEndOfFile.
	ScanNext() (storage.RecordId, error)
	// GetRecord returns the raw bytes of the row the cursor currently points to.
	GetRecord() ([]byte, error)
}

type tableScanner struct {
	t       *Table
	next    uint64
	current storage.RecordId
	started bool
}

// NewScanner returns a Scanner over the rows of t. The row count is read on
// every ScanNext, so rows appended before the scan reaches the end are
// included.
func NewScanner(t *Table) Scanner {
	return &tableScanner{t: t}
}

func (s *tableScanner) ScanNext() (storage.RecordId, error) {
	if s.next >= s.t.Count() {
		return storage.RecordId{}, ErrEndOfFile
	}
	n := s.next
	s.next++
	pageID := uint32(n/uint64(s.t.rowsPerPage)) + 1
	slot := uint32(n % uint64(s.t.rowsPerPage))
	s.current = storage.RecordId{PageID: pageID, Slot: slot}
	s.started = true
	return s.current, nil
}

func (s *tableScanner) GetRecord() ([]byte, error) {
	if !s.started {
		return nil, ErrEndOfFile
	}
	return s.t.Get(s.current)
}
