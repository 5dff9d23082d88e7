package btree

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/bptreeindex/internal/storage"
)

func newEmptyIndex(t *testing.T) *Index {
	t.Helper()
	mgr := newTestManager(t)
	idx := newIndex(mgr, slog.Default())

	rootPage, rootID, err := idx.allocatePage()
	require.NoError(t, err)
	leaf := AsLeaf(rootPage)
	leaf.InitEmpty()
	require.NoError(t, idx.mgr.Unpin(rootPage, true))
	idx.rootPageID = rootID

	idx.meta = IndexMetaInfo{RelationName: "t", AttrByteOffset: 0, AttrType: AttrInteger, RootPageNo: rootID}
	require.NoError(t, idx.persistMeta())
	return idx
}

func ridFor(key int32) storage.RecordId {
	return storage.RecordId{PageID: uint32(key) + 1, Slot: 1}
}

func scanAll(t *testing.T, idx *Index) []storage.RecordId {
	t.Helper()
	require.NoError(t, idx.StartScan(0, GE, int32(1)<<30, LT))
	var out []storage.RecordId
	for {
		rid, err := idx.ScanNext()
		if err != nil {
			require.ErrorIs(t, err, ErrIndexScanCompleted)
			break
		}
		out = append(out, rid)
	}
	require.NoError(t, idx.EndScan())
	return out
}

func TestInsertEntry_NoSplitFitsInRootLeaf(t *testing.T) {
	idx := newEmptyIndex(t)
	keys := []int32{50, 10, 30, 20, 40}
	for _, k := range keys {
		require.NoError(t, idx.InsertEntry(k, ridFor(k)))
	}

	rids := scanAll(t, idx)
	require.Len(t, rids, len(keys))
	for i, rid := range rids {
		require.Equal(t, ridFor(int32(10*(i+1))), rid)
	}
}

func TestInsertEntry_DuplicatesPermitted(t *testing.T) {
	idx := newEmptyIndex(t)
	require.NoError(t, idx.InsertEntry(5, storage.RecordId{PageID: 1, Slot: 1}))
	require.NoError(t, idx.InsertEntry(5, storage.RecordId{PageID: 1, Slot: 2}))
	require.NoError(t, idx.InsertEntry(5, storage.RecordId{PageID: 1, Slot: 3}))

	rids := scanAll(t, idx)
	require.Len(t, rids, 3)
}

func TestInsertEntry_OverflowingLeafSplitsAndPromotesRoot(t *testing.T) {
	idx := newEmptyIndex(t)
	n := LeafFanout + 1
	for i := 0; i < n; i++ {
		k := int32(i)
		require.NoError(t, idx.InsertEntry(k, ridFor(k)))
	}

	require.NotEqual(t, leafLevel, idx.rootLevel, "root should have been promoted to an internal node")

	rids := scanAll(t, idx)
	require.Len(t, rids, n)
	for i, rid := range rids {
		require.Equal(t, ridFor(int32(i)), rid)
	}
}

func TestInsertEntry_DescendingInsertionOrderStaysSorted(t *testing.T) {
	idx := newEmptyIndex(t)
	n := LeafFanout + 50
	for i := n - 1; i >= 0; i-- {
		k := int32(i)
		require.NoError(t, idx.InsertEntry(k, ridFor(k)))
	}

	rids := scanAll(t, idx)
	require.Len(t, rids, n)
	for i, rid := range rids {
		require.Equal(t, ridFor(int32(i)), rid)
	}
}

func TestInsertEntry_RandomOrderStaysSorted(t *testing.T) {
	idx := newEmptyIndex(t)
	n := LeafFanout * 2
	// A fixed, deterministic pseudo-shuffle (no random source), so every
	// run inserts the keys in the same non-sorted order.
	perm := make([]int32, n)
	for i := range perm {
		perm[i] = int32(i)
	}
	for i := len(perm) - 1; i > 0; i-- {
		j := (i * 2654435761) % (i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	for _, k := range perm {
		require.NoError(t, idx.InsertEntry(k, ridFor(k)))
	}

	rids := scanAll(t, idx)
	require.Len(t, rids, n)
	for i, rid := range rids {
		require.Equal(t, ridFor(int32(i)), rid)
	}
}
