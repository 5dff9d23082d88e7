package btree

import (
	"sort"

	"github.com/tuannm99/bptreeindex/internal/alias/bx"
	"github.com/tuannm99/bptreeindex/internal/storage"
)

// leafLevel is the sentinel level value identifying a leaf node. Any other
// value identifies an internal node; the magnitude is otherwise decorative
// (1 just above leaves, higher further up), per spec.md §3.
const leafLevel = int32(-1)

// Leaf node layout: level:i32 | keys:[i32;LeafFanout] | rids:[RecordId;LeafFanout] | rightSibling:PageId
var (
	leafKeysOff    = int32Size
	leafRidsOff    = leafKeysOff + int32Size*LeafFanout
	leafSiblingOff = leafRidsOff + recordIDSize*LeafFanout
)

// Internal node layout: level:i32 | keys:[i32;IntFanout] | children:[PageId;IntFanout+1]
var (
	intKeysOff     = int32Size
	intChildrenOff = intKeysOff + int32Size*IntFanout
)

// LeafNode is a typed view over a page's bytes: it borrows the page buffer
// for the lifetime of the pin and never copies it.
type LeafNode struct{ p *storage.Page }

func AsLeaf(p *storage.Page) LeafNode { return LeafNode{p} }

func nodeLevel(p *storage.Page) int32 { return bx.I32At(p.Buf, 0) }

func (n LeafNode) Level() int32     { return bx.I32At(n.p.Buf, 0) }
func (n LeafNode) SetLevel(v int32) { bx.PutI32At(n.p.Buf, 0, v) }

// InitEmpty initializes a freshly allocated page as an empty leaf.
func (n LeafNode) InitEmpty() {
	n.SetLevel(leafLevel)
	n.SetRightSibling(0)
}

func (n LeafNode) Key(i int) int32     { return bx.I32At(n.p.Buf, leafKeysOff+int32Size*i) }
func (n LeafNode) SetKey(i int, k int32) { bx.PutI32At(n.p.Buf, leafKeysOff+int32Size*i, k) }

func (n LeafNode) Rid(i int) storage.RecordId {
	off := leafRidsOff + recordIDSize*i
	return storage.RecordId{
		PageID: bx.U32At(n.p.Buf, off),
		Slot:   bx.U32At(n.p.Buf, off+4),
	}
}

func (n LeafNode) SetRid(i int, rid storage.RecordId) {
	off := leafRidsOff + recordIDSize*i
	bx.PutU32At(n.p.Buf, off, rid.PageID)
	bx.PutU32At(n.p.Buf, off+4, rid.Slot)
}

func (n LeafNode) RightSibling() uint32     { return bx.U32At(n.p.Buf, leafSiblingOff) }
func (n LeafNode) SetRightSibling(id uint32) { bx.PutU32At(n.p.Buf, leafSiblingOff, id) }

// Len returns the number of populated slots: the first index whose rid is
// the (0,0) sentinel, found by binary search over the contiguous trailing
// run of empty slots (spec.md §4.1 leaf_len).
func (n LeafNode) Len() int {
	return sort.Search(LeafFanout, func(i int) bool { return n.Rid(i).IsZero() })
}

// Full reports whether the last slot is occupied (spec.md §4.1 leaf_full).
func (n LeafNode) Full() bool { return !n.Rid(LeafFanout - 1).IsZero() }

// InternalNode is a typed view over a page's bytes for a non-leaf node.
type InternalNode struct{ p *storage.Page }

func AsInternal(p *storage.Page) InternalNode { return InternalNode{p} }

func (n InternalNode) Level() int32     { return bx.I32At(n.p.Buf, 0) }
func (n InternalNode) SetLevel(v int32) { bx.PutI32At(n.p.Buf, 0, v) }

func (n InternalNode) Key(i int) int32       { return bx.I32At(n.p.Buf, intKeysOff+int32Size*i) }
func (n InternalNode) SetKey(i int, k int32) { bx.PutI32At(n.p.Buf, intKeysOff+int32Size*i, k) }

func (n InternalNode) Child(i int) uint32       { return bx.U32At(n.p.Buf, intChildrenOff+pageIDSize*i) }
func (n InternalNode) SetChild(i int, id uint32) { bx.PutU32At(n.p.Buf, intChildrenOff+pageIDSize*i, id) }

// Len returns the number of populated children: the first index whose
// child id is the 0 sentinel (spec.md §4.1 internal_len).
func (n InternalNode) Len() int {
	return sort.Search(IntFanout+1, func(i int) bool { return n.Child(i) == 0 })
}

// Full reports whether the last child slot is occupied (internal_full).
func (n InternalNode) Full() bool { return n.Child(IntFanout) != 0 }

// arrayIndex returns the first index i in [0,n) with at(i) >= key (when
// includeKey) or at(i) > key (otherwise), or -1 if none qualifies. The
// array addressed by at must be sorted ascending over [0,n).
func arrayIndex(n int, key int32, includeKey bool, at func(i int) int32) int {
	idx := sort.Search(n, func(i int) bool {
		if includeKey {
			return at(i) >= key
		}
		return at(i) > key
	})
	if idx == n {
		return -1
	}
	return idx
}

// descendIndex yields the child slot whose subtree may contain key: the
// first i with keys[i] >= key, or the last child if none. Child i holds keys
// up to and including keys[i], so a key equal to a separator descends into
// the child to its left (duplicates of a separator route left, per
// spec.md §4.1's array_index(keys, len-1, key, include=true)).
func descendIndex(node InternalNode, key int32) int {
	numChildren := node.Len()
	i := arrayIndex(numChildren-1, key, true, node.Key)
	if i == -1 {
		return numChildren - 1
	}
	return i
}

func leafInsertIndex(leaf LeafNode, key int32) int {
	n := leaf.Len()
	i := arrayIndex(n, key, true, leaf.Key)
	if i == -1 {
		return n
	}
	return i
}

func leafScanIndex(leaf LeafNode, key int32, inclusive bool) int {
	return arrayIndex(leaf.Len(), key, inclusive, leaf.Key)
}
