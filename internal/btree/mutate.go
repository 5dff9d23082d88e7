package btree

import "github.com/tuannm99/bptreeindex/internal/storage"

// leafInsertAt shifts keys/rids right of i by one slot and writes (key, rid)
// at i. Precondition: leaf is not full.
func leafInsertAt(leaf LeafNode, i int, key int32, rid storage.RecordId) {
	n := leaf.Len()
	for j := n; j > i; j-- {
		leaf.SetKey(j, leaf.Key(j-1))
		leaf.SetRid(j, leaf.Rid(j-1))
	}
	leaf.SetKey(i, key)
	leaf.SetRid(i, rid)
}

// internalInsertAt shifts keys[i..] and children[i+1..] right by one slot,
// writes key at i and child at i+1 — child becomes the right child of the
// new separator. Precondition: node is not full.
func internalInsertAt(node InternalNode, i int, key int32, child uint32) {
	numChildren := node.Len()
	numKeys := numChildren - 1
	for j := numKeys; j > i; j-- {
		node.SetKey(j, node.Key(j-1))
	}
	for j := numChildren; j > i+1; j-- {
		node.SetChild(j, node.Child(j-1))
	}
	node.SetKey(i, key)
	node.SetChild(i+1, child)
}

// internalPrependChild inserts child as node's new first child, shifting
// node's existing children right by one. Used only for the move-key-up
// split optimization, where the freshly created right sibling is small
// enough that prepending into it is cheaper than shifting the original,
// already-full node.
func internalPrependChild(node InternalNode, child uint32) {
	n := node.Len()
	for j := n; j > 0; j-- {
		node.SetChild(j, node.Child(j-1))
	}
	node.SetChild(0, child)
}

// splitLeaf moves keys[at..]/rids[at..] from src to the front of dst,
// zeroing the moved region in src. Leaf sibling linkage is the caller's
// responsibility.
func splitLeaf(src, dst LeafNode, at int) {
	srcLen := src.Len()
	j := 0
	for k := at; k < srcLen; k++ {
		dst.SetKey(j, src.Key(k))
		dst.SetRid(j, src.Rid(k))
		src.SetKey(k, 0)
		src.SetRid(k, storage.RecordId{})
		j++
	}
}

// splitInternal moves the right half of src to dst.
//
// If keepMid: keys[at..] and children[at+1..] move to dst, so dst.keys[0]
// == src.keys[at] (the separator at at is preserved, not promoted).
//
// If !keepMid: keys[at+1..] and children[at+1..] move to dst; src.keys[at]
// is consumed as the promoted separator (the caller has already read it)
// and zeroed here rather than carried into either half.
//
// children[at+1] becomes dst's first child in both cases, preserving the
// subtree-ownership invariant.
func splitInternal(src, dst InternalNode, at int, keepMid bool) {
	srcLen := src.Len()
	numKeys := srcLen - 1

	keyStart := at
	if !keepMid {
		keyStart = at + 1
	}
	j := 0
	for k := keyStart; k < numKeys; k++ {
		dst.SetKey(j, src.Key(k))
		src.SetKey(k, 0)
		j++
	}
	if !keepMid {
		src.SetKey(at, 0)
	}

	jc := 0
	for k := at + 1; k < srcLen; k++ {
		dst.SetChild(jc, src.Child(k))
		src.SetChild(k, 0)
		jc++
	}
}
