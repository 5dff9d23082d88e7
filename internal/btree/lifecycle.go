package btree

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tuannm99/bptreeindex/internal/alias/bx"
	"github.com/tuannm99/bptreeindex/internal/bufferpool"
	"github.com/tuannm99/bptreeindex/internal/relation"
)

// CreateIndex builds a new, empty index file bound to mgr: it writes the
// meta page, allocates a single empty leaf as the initial root, then bulk
// loads by scanning every tuple of scanner, decoding a 32-bit integer key
// at attrByteOffset and inserting (key, rid) for each.
//
// mgr must already be scoped to the file this index will live in (e.g. a
// bufferpool.Pool bound to a storage.LocalFileSet named with
// IndexFileName(relationName, attrByteOffset)); constructing that FileSet
// is the caller's concern, same as spec.md's "external blob/page file"
// collaborator.
func CreateIndex(
	mgr bufferpool.Manager,
	relationName string,
	attrByteOffset int32,
	attrType AttrType,
	scanner relation.Scanner,
	log *slog.Logger,
) (*Index, error) {
	if attrType != AttrInteger {
		return nil, fmt.Errorf("btree: attribute type %d not supported, only AttrInteger", attrType)
	}

	idx := newIndex(mgr, log)

	rootPage, rootID, err := idx.allocatePage()
	if err != nil {
		return nil, err
	}
	leaf := AsLeaf(rootPage)
	leaf.InitEmpty()
	if err := idx.mgr.Unpin(rootPage, true); err != nil {
		return nil, err
	}
	idx.rootPageID = rootID

	idx.meta = IndexMetaInfo{
		RelationName:   relationName,
		AttrByteOffset: attrByteOffset,
		AttrType:       attrType,
		RootPageNo:     rootID,
	}
	if err := idx.persistMeta(); err != nil {
		return nil, err
	}

	n, err := idx.bulkLoad(scanner, attrByteOffset)
	if err != nil {
		return nil, err
	}
	idx.log.Info("btree: index created", "relation", relationName, "attrByteOffset", attrByteOffset, "rowsLoaded", n)
	return idx, nil
}

// bulkLoad iterates the relation via scanner, inserting one entry per row
// until the scanner signals relation.ErrEndOfFile, which terminates bulk
// load without propagating as an error (spec.md §7).
func (idx *Index) bulkLoad(scanner relation.Scanner, attrByteOffset int32) (int, error) {
	n := 0
	for {
		rid, err := scanner.ScanNext()
		if errors.Is(err, relation.ErrEndOfFile) {
			return n, nil
		}
		if err != nil {
			return n, err
		}

		row, err := scanner.GetRecord()
		if err != nil {
			return n, err
		}
		if len(row) < int(attrByteOffset)+4 {
			return n, fmt.Errorf("btree: row too short for attribute offset %d", attrByteOffset)
		}
		key := bx.I32At(row, int(attrByteOffset))

		if err := idx.InsertEntry(key, rid); err != nil {
			return n, err
		}
		n++
	}
}

// Close ends any in-progress scan, flushes every dirty page, and releases
// the index. No further calls should be made on idx afterward.
func (idx *Index) Close() error {
	if idx.cursor.active {
		if err := idx.EndScan(); err != nil {
			return err
		}
	}
	return idx.mgr.FlushAll()
}
