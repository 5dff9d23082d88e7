package btree

import "github.com/tuannm99/bptreeindex/internal/storage"

// CompareOp is one of the four scan-boundary operators. Only GT/GE are
// valid low-bound operators and only LT/LE are valid high-bound operators.
type CompareOp int

const (
	GT CompareOp = iota
	GE
	LT
	LE
)

func validLowOp(op CompareOp) bool  { return op == GT || op == GE }
func validHighOp(op CompareOp) bool { return op == LT || op == LE }

// cursorState holds the single in-flight scan's position. At most one scan
// is active at a time (spec.md §4.3, §9 "single-scan restriction").
type cursorState struct {
	active   bool
	low      int32
	high     int32
	lowIncl  bool
	highIncl bool

	pageID    uint32
	page      *storage.Page // non-nil iff pageID != 0; the one pinned leaf
	nextEntry int
}

func violatesHigh(key, high int32, highIncl bool) bool {
	if highIncl {
		return key > high
	}
	return key >= high
}

// StartScan begins a new range scan over [low,high] subject to the given
// operators, implicitly ending any prior scan. Descends from the root to
// the leaf that may contain low, pinning only that leaf.
func (idx *Index) StartScan(low int32, lowOp CompareOp, high int32, highOp CompareOp) error {
	if !validLowOp(lowOp) || !validHighOp(highOp) {
		return ErrBadOpcodes
	}
	if low > high {
		return ErrBadScanRange
	}
	if idx.cursor.active {
		if err := idx.EndScan(); err != nil {
			return err
		}
	}

	lowIncl := lowOp == GE
	highIncl := highOp == LE

	pageID := idx.rootPageID
	var leafPage *storage.Page
	for {
		page, err := idx.mgr.GetPage(pageID)
		if err != nil {
			return err
		}
		if nodeLevel(page) == leafLevel {
			leafPage = page
			break
		}
		node := AsInternal(page)
		childID := node.Child(descendIndex(node, low))
		if err := idx.mgr.Unpin(page, false); err != nil {
			return err
		}
		pageID = childID
	}

	cs := cursorState{low: low, high: high, lowIncl: lowIncl, highIncl: highIncl, pageID: pageID, page: leafPage}
	leaf := AsLeaf(leafPage)
	if ne := leafScanIndex(leaf, low, lowIncl); ne == -1 {
		if err := idx.advanceToNextLeaf(&cs); err != nil {
			return err
		}
	} else {
		cs.nextEntry = ne
	}

	if cs.page == nil {
		idx.cursor = cursorState{}
		return ErrNoSuchKeyFound
	}
	leaf = AsLeaf(cs.page)
	rid := leaf.Rid(cs.nextEntry)
	key := leaf.Key(cs.nextEntry)
	if rid.IsZero() || violatesHigh(key, high, highIncl) {
		if err := idx.mgr.Unpin(cs.page, false); err != nil {
			return err
		}
		idx.cursor = cursorState{}
		return ErrNoSuchKeyFound
	}

	cs.active = true
	idx.cursor = cs
	return nil
}

// ScanNext yields the next matching record id, or ErrIndexScanCompleted
// once the range is exhausted.
func (idx *Index) ScanNext() (storage.RecordId, error) {
	cs := &idx.cursor
	if !cs.active {
		return storage.RecordId{}, ErrScanNotInitialised
	}
	if cs.page == nil {
		return storage.RecordId{}, ErrIndexScanCompleted
	}

	leaf := AsLeaf(cs.page)
	rid := leaf.Rid(cs.nextEntry)
	key := leaf.Key(cs.nextEntry)
	if rid.IsZero() || violatesHigh(key, cs.high, cs.highIncl) {
		return storage.RecordId{}, ErrIndexScanCompleted
	}

	cs.nextEntry++
	if cs.nextEntry >= LeafFanout || leaf.Rid(cs.nextEntry).IsZero() {
		if err := idx.advanceToNextLeaf(cs); err != nil {
			return storage.RecordId{}, err
		}
	}
	return rid, nil
}

// EndScan releases the held leaf and clears cursor state.
func (idx *Index) EndScan() error {
	if !idx.cursor.active {
		return ErrScanNotInitialised
	}
	if idx.cursor.page != nil {
		if err := idx.mgr.Unpin(idx.cursor.page, false); err != nil {
			return err
		}
	}
	idx.cursor = cursorState{}
	return nil
}

// advanceToNextLeaf unpins the current leaf and pins its right sibling, or
// leaves pageID/page zero-valued if there is none.
func (idx *Index) advanceToNextLeaf(cs *cursorState) error {
	leaf := AsLeaf(cs.page)
	nextID := leaf.RightSibling()
	if err := idx.mgr.Unpin(cs.page, false); err != nil {
		return err
	}
	cs.page = nil
	cs.pageID = nextID
	cs.nextEntry = 0
	if nextID == 0 {
		return nil
	}
	p, err := idx.mgr.GetPage(nextID)
	if err != nil {
		return err
	}
	cs.page = p
	return nil
}
