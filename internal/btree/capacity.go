package btree

import (
	"fmt"

	"github.com/tuannm99/bptreeindex/internal/storage"
)

const (
	int32Size    = 4
	pageIDSize   = 4
	recordIDSize = 8 // storage.RecordId: PageID uint32 + Slot uint32
)

// LeafFanout and IntFanout are derived once from storage.PageSize, the way
// the source computes INTARRAYLEAFSIZE/INTARRAYNONLEAFSIZE from Page::SIZE.
var (
	LeafFanout = leafFanoutFor(storage.PageSize)
	IntFanout  = intFanoutFor(storage.PageSize)
)

func leafFanoutFor(pageSize int) int {
	return (pageSize - pageIDSize) / (int32Size + recordIDSize)
}

func intFanoutFor(pageSize int) int {
	return (pageSize - int32Size - pageIDSize) / (int32Size + pageIDSize)
}

// planInternalSplit decides how a full internal node splits around the
// insertion point i of the newly promoted separator: which half it lands
// in (insertLeft) and i's offset from that half's start in the original
// node (insertPos: i on the left, i-M on the right, where the key at
// splitAt is promoted out so the right node's slot is insertPos-1), the index
// in the original node the right half starts at (splitAt), and whether the
// split must preserve the old separator at splitAt as the right node's
// first key instead of promoting it further up (moveKeyUp) — the case
// where the new separator would otherwise land at position 0 of the right
// half (spec.md §4.2 step 5).
func planInternalSplit(i int) (splitAt, insertPos int, insertLeft, moveKeyUp bool) {
	M := (IntFanout - 1) / 2
	insertLeft = i < M
	splitAt = M
	if insertLeft {
		splitAt = M + 1
	}
	insertPos = i
	if !insertLeft {
		insertPos = i - M
	}
	moveKeyUp = !insertLeft && insertPos == 0
	return splitAt, insertPos, insertLeft, moveKeyUp
}

// assertFanouts panics if the page size is too small to hold a workable
// node, per spec.md §9's recommendation (INT_FANOUT >= 3, LEAF_FANOUT >= 2).
// This is a startup-time configuration error, not a recoverable condition.
func assertFanouts() {
	if IntFanout < 3 {
		panic(fmt.Sprintf("btree: INT_FANOUT too small: %d (need >= 3)", IntFanout))
	}
	if LeafFanout < 2 {
		panic(fmt.Sprintf("btree: LEAF_FANOUT too small: %d (need >= 2)", LeafFanout))
	}
}
