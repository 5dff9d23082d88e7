package btree

import "errors"

// Error kinds surfaced at the public boundary of the index engine. Only
// ErrEndOfFile-equivalent relation exhaustion is caught internally (during
// bulk load, via relation.ErrEndOfFile); everything below propagates
// unchanged to the caller with pins already released.
var (
	ErrBadOpcodes         = errors.New("btree: bad scan opcode")
	ErrBadScanRange       = errors.New("btree: low bound greater than high bound")
	ErrNoSuchKeyFound     = errors.New("btree: no entry in requested range")
	ErrScanNotInitialised = errors.New("btree: scan not initialised")
	ErrIndexScanCompleted = errors.New("btree: scan already completed")
)
