package btree

import (
	"testing"

	"github.com/tuannm99/bptreeindex/internal/bufferpool"
	"github.com/tuannm99/bptreeindex/internal/storage"
)

// newTestManager gives each test its own file-backed buffer pool with a
// generous capacity so normal-sized trees never hit ErrNoFreeFrame.
func newTestManager(t *testing.T) bufferpool.Manager {
	t.Helper()
	sm := storage.NewStorageManager()
	fs := storage.LocalFileSet{Dir: t.TempDir(), Base: "idx"}
	return bufferpool.NewPool(sm, fs, 256)
}
