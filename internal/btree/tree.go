// Package btree implements a disk-backed B+ tree index over a single
// 32-bit integer attribute: node layout within fixed-size pages, recursive
// split-on-overflow insertion with root promotion, and leaf-sibling range
// scans, all under an external buffer manager's pin/unpin discipline.
package btree

import (
	"log/slog"

	"github.com/tuannm99/bptreeindex/internal/bufferpool"
	"github.com/tuannm99/bptreeindex/internal/storage"
)

const metaPageID = uint32(1)

// Index is a single B+ tree index bound to one buffer-manager-managed
// file. All state that must survive a public call returning — the current
// root and the in-progress scan cursor, if any — lives here; nothing else
// is held pinned once a call returns (spec.md §8 P6).
type Index struct {
	mgr bufferpool.Manager
	log *slog.Logger

	meta       IndexMetaInfo
	rootPageID uint32
	rootLevel  int32 // level field of the current root; -1 while root is a leaf
	nextPageID uint32

	cursor cursorState
}

// newIndex wires an Index to an already-open Manager without touching disk;
// callers use CreateIndex to also initialize the on-disk file.
func newIndex(mgr bufferpool.Manager, log *slog.Logger) *Index {
	assertFanouts()
	if log == nil {
		log = slog.Default()
	}
	return &Index{mgr: mgr, log: log, nextPageID: 2, rootLevel: leafLevel}
}

// allocatePage returns a fresh, pinned page one past the current
// high-water mark. storage.StorageManager zero-fills reads past EOF, so
// this reuses GetPage rather than needing a distinct bufferpool method —
// the caller must immediately stamp a level onto the page before any other
// reader could observe the ambiguous all-zero state.
func (idx *Index) allocatePage() (*storage.Page, uint32, error) {
	id := idx.nextPageID
	idx.nextPageID++
	p, err := idx.mgr.GetPage(id)
	if err != nil {
		return nil, 0, err
	}
	return p, id, nil
}

func (idx *Index) persistMeta() error {
	p, err := idx.mgr.GetPage(metaPageID)
	if err != nil {
		return err
	}
	if err := encodeMeta(p, idx.meta); err != nil {
		_ = idx.mgr.Unpin(p, false)
		return err
	}
	return idx.mgr.Unpin(p, true)
}

// insertResult is the recursive insert's return value: a non-zero
// newSibling means the callee split and promoted to its parent.
type insertResult struct {
	newSibling uint32
	promoted   int32
}

// InsertEntry inserts (key, rid) into the tree, duplicates permitted.
func (idx *Index) InsertEntry(key int32, rid storage.RecordId) error {
	res, err := idx.insert(idx.rootPageID, key, rid)
	if err != nil {
		return err
	}
	if res.newSibling == 0 {
		return nil
	}
	return idx.promoteRoot(res)
}

func (idx *Index) promoteRoot(res insertResult) error {
	newRootPage, newRootID, err := idx.allocatePage()
	if err != nil {
		return err
	}
	root := AsInternal(newRootPage)
	newLevel := int32(1)
	if idx.rootLevel >= 0 {
		newLevel = idx.rootLevel + 1
	}
	root.SetLevel(newLevel)
	root.SetKey(0, res.promoted)
	root.SetChild(0, idx.rootPageID)
	root.SetChild(1, res.newSibling)
	if err := idx.mgr.Unpin(newRootPage, true); err != nil {
		return err
	}

	idx.rootPageID = newRootID
	idx.rootLevel = newLevel
	idx.meta.RootPageNo = newRootID
	if err := idx.persistMeta(); err != nil {
		return err
	}
	idx.log.Debug("btree: root promoted", "newRoot", newRootID, "level", newLevel)
	return nil
}

// insert recursively descends to a leaf, inserting (key, rid), splitting
// and propagating a promoted separator back up as needed.
func (idx *Index) insert(pageID uint32, key int32, rid storage.RecordId) (insertResult, error) {
	page, err := idx.mgr.GetPage(pageID)
	if err != nil {
		return insertResult{}, err
	}

	if nodeLevel(page) == leafLevel {
		return idx.insertToLeaf(page, key, rid)
	}
	return idx.insertToInternal(page, key, rid)
}

func (idx *Index) insertToLeaf(page *storage.Page, key int32, rid storage.RecordId) (insertResult, error) {
	leaf := AsLeaf(page)
	i := leafInsertIndex(leaf, key)

	if !leaf.Full() {
		leafInsertAt(leaf, i, key, rid)
		if err := idx.mgr.Unpin(page, true); err != nil {
			return insertResult{}, err
		}
		return insertResult{}, nil
	}

	M := LeafFanout / 2
	insertLeft := i < M
	splitAt := M
	if insertLeft {
		splitAt = M + 1
	}

	newPage, newID, err := idx.allocatePage()
	if err != nil {
		_ = idx.mgr.Unpin(page, false)
		return insertResult{}, err
	}
	right := AsLeaf(newPage)
	right.SetLevel(leafLevel)
	right.SetRightSibling(0)

	splitLeaf(leaf, right, splitAt)
	if insertLeft {
		leafInsertAt(leaf, i, key, rid)
	} else {
		leafInsertAt(right, i-M, key, rid)
	}

	right.SetRightSibling(leaf.RightSibling())
	leaf.SetRightSibling(newID)

	if err := idx.mgr.Unpin(page, true); err != nil {
		return insertResult{}, err
	}
	if err := idx.mgr.Unpin(newPage, true); err != nil {
		return insertResult{}, err
	}
	return insertResult{newSibling: newID, promoted: right.Key(0)}, nil
}

func (idx *Index) insertToInternal(page *storage.Page, key int32, rid storage.RecordId) (insertResult, error) {
	node := AsInternal(page)
	c := descendIndex(node, key)
	childID := node.Child(c)

	childRes, err := idx.insert(childID, key, rid)
	if err != nil {
		_ = idx.mgr.Unpin(page, false)
		return insertResult{}, err
	}
	if childRes.newSibling == 0 {
		if err := idx.mgr.Unpin(page, false); err != nil {
			return insertResult{}, err
		}
		return insertResult{}, nil
	}

	promoted := childRes.promoted
	newChild := childRes.newSibling
	i := descendIndex(node, promoted)

	if !node.Full() {
		internalInsertAt(node, i, promoted, newChild)
		if err := idx.mgr.Unpin(page, true); err != nil {
			return insertResult{}, err
		}
		return insertResult{}, nil
	}

	splitAt, insertPos, insertLeft, moveKeyUp := planInternalSplit(i)

	promotedOut := promoted
	if !moveKeyUp {
		promotedOut = node.Key(splitAt)
	}

	newPage, newID, err := idx.allocatePage()
	if err != nil {
		_ = idx.mgr.Unpin(page, false)
		return insertResult{}, err
	}
	newNode := AsInternal(newPage)
	newNode.SetLevel(node.Level())

	splitInternal(node, newNode, splitAt, moveKeyUp)
	if moveKeyUp {
		// The new separator would land at position 0 of the right node;
		// keepMid already preserved the old split-point key as newNode's
		// first key, so only the new child needs to be threaded in ahead
		// of newNode's existing children.
		internalPrependChild(newNode, newChild)
	} else if insertLeft {
		internalInsertAt(node, insertPos, promoted, newChild)
	} else {
		// The key at splitAt was promoted out rather than carried into
		// newNode, so the new separator's slot in newNode is insertPos-1.
		internalInsertAt(newNode, insertPos-1, promoted, newChild)
	}

	if err := idx.mgr.Unpin(page, true); err != nil {
		return insertResult{}, err
	}
	if err := idx.mgr.Unpin(newPage, true); err != nil {
		return insertResult{}, err
	}
	return insertResult{newSibling: newID, promoted: promotedOut}, nil
}
