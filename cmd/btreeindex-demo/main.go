// Command btreeindex-demo builds a small relation, bulk-loads a B+ tree
// index over it, and runs a bounded range scan, wiring every package in
// this module together the way a manual smoke test would.
package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"path/filepath"

	"github.com/tuannm99/bptreeindex/internal/alias/bx"
	"github.com/tuannm99/bptreeindex/internal/btree"
	"github.com/tuannm99/bptreeindex/internal/bufferpool"
	"github.com/tuannm99/bptreeindex/internal/config"
	"github.com/tuannm99/bptreeindex/internal/relation"
	"github.com/tuannm99/bptreeindex/internal/storage"
)

const rowCount = 500

func main() {
	cfg := config.Default()
	dataDir := filepath.Join(cfg.Storage.DataDir, "btreeindex-demo")

	sm := storage.NewStorageManager()

	usersFS := storage.LocalFileSet{Dir: dataDir, Base: "users"}
	usersBP := bufferpool.NewPool(sm, usersFS, cfg.BufferPool.Capacity)

	tbl, err := relation.NewTable(usersBP, cfg.Relation.RowWidth)
	if err != nil {
		log.Fatalf("NewTable: %v", err)
	}
	defer func() { _ = tbl.Close() }()

	for i := 0; i < rowCount; i++ {
		row := make([]byte, cfg.Relation.RowWidth)
		bx.PutI32At(row, 0, int32(i))
		if _, err := tbl.Insert(row); err != nil {
			log.Fatalf("Insert: %v", err)
		}
	}

	idxFS := storage.LocalFileSet{Dir: dataDir, Base: btree.IndexFileName("users", 0)}
	idxBP := bufferpool.NewPool(sm, idxFS, cfg.BufferPool.Capacity)
	scanner := relation.NewScanner(tbl)

	idx, err := btree.CreateIndex(idxBP, "users", 0, btree.AttrInteger, scanner, slog.Default())
	if err != nil {
		log.Fatalf("CreateIndex: %v", err)
	}
	defer func() { _ = idx.Close() }()

	const lo, hi = int32(100), int32(120)
	if err := idx.StartScan(lo, btree.GE, hi, btree.LE); err != nil {
		log.Fatalf("StartScan: %v", err)
	}

	fmt.Printf("keys in [%d, %d]:\n", lo, hi)
	for {
		rid, err := idx.ScanNext()
		if errors.Is(err, btree.ErrIndexScanCompleted) {
			break
		}
		if err != nil {
			log.Fatalf("ScanNext: %v", err)
		}
		row, err := tbl.Get(rid)
		if err != nil {
			log.Fatalf("Get: %v", err)
		}
		fmt.Printf("  rid=%+v key=%d\n", rid, bx.I32At(row, 0))
	}
	if err := idx.EndScan(); err != nil {
		log.Fatalf("EndScan: %v", err)
	}
}
