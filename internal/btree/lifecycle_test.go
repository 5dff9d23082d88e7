package btree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/bptreeindex/internal/alias/bx"
	"github.com/tuannm99/bptreeindex/internal/bufferpool"
	"github.com/tuannm99/bptreeindex/internal/relation"
	"github.com/tuannm99/bptreeindex/internal/storage"
)

const testRowWidth = 16

func buildRow(key int32, payload string) []byte {
	row := make([]byte, testRowWidth)
	bx.PutI32At(row, 0, key)
	copy(row[4:], payload)
	return row
}

func newRelationManager(t *testing.T) bufferpool.Manager {
	t.Helper()
	sm := storage.NewStorageManager()
	fs := storage.LocalFileSet{Dir: t.TempDir(), Base: "employees"}
	return bufferpool.NewPool(sm, fs, 64)
}

func TestCreateIndex_BulkLoadsFromRelationAndScans(t *testing.T) {
	relMgr := newRelationManager(t)
	table, err := relation.NewTable(relMgr, testRowWidth)
	require.NoError(t, err)

	want := []int32{30, 10, 50, 20, 40}
	rids := make(map[int32]storage.RecordId, len(want))
	for _, k := range want {
		rid, err := table.Insert(buildRow(k, "row"))
		require.NoError(t, err)
		rids[k] = rid
	}

	idxMgr := newTestManager(t)
	scanner := relation.NewScanner(table)
	idx, err := CreateIndex(idxMgr, "employees", 0, AttrInteger, scanner, nil)
	require.NoError(t, err)

	rid, err := findOne(idx, 30)
	require.NoError(t, err)
	require.Equal(t, rids[30], rid)

	allRids := scanAll(t, idx)
	require.Len(t, allRids, len(want))

	require.NoError(t, idx.Close())
}

func TestCreateIndex_RejectsNonIntegerAttribute(t *testing.T) {
	relMgr := newRelationManager(t)
	table, err := relation.NewTable(relMgr, testRowWidth)
	require.NoError(t, err)
	scanner := relation.NewScanner(table)

	idxMgr := newTestManager(t)
	_, err = CreateIndex(idxMgr, "employees", 0, AttrString, scanner, nil)
	require.Error(t, err)
}

func TestCreateIndex_EmptyRelationYieldsEmptyIndex(t *testing.T) {
	relMgr := newRelationManager(t)
	table, err := relation.NewTable(relMgr, testRowWidth)
	require.NoError(t, err)
	scanner := relation.NewScanner(table)

	idxMgr := newTestManager(t)
	idx, err := CreateIndex(idxMgr, "employees", 0, AttrInteger, scanner, nil)
	require.NoError(t, err)

	err = idx.StartScan(0, GE, 100, LE)
	require.ErrorIs(t, err, ErrNoSuchKeyFound)
	require.NoError(t, idx.Close())
}

// findOne scans for exactly key and returns its single record id.
func findOne(idx *Index, key int32) (storage.RecordId, error) {
	if err := idx.StartScan(key, GE, key, LE); err != nil {
		return storage.RecordId{}, err
	}
	rid, err := idx.ScanNext()
	if err != nil {
		return storage.RecordId{}, err
	}
	return rid, idx.EndScan()
}
