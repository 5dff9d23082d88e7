package btree

import (
	"bytes"
	"fmt"

	"github.com/tuannm99/bptreeindex/internal/alias/bx"
	"github.com/tuannm99/bptreeindex/internal/storage"
)

// AttrType tags the type of the attribute an index is built over. Only
// AttrInteger is implemented; string/double are named for layout fidelity
// with the meta page format but rejected at CreateIndex time.
type AttrType int32

const (
	AttrInteger AttrType = 0
	AttrDouble  AttrType = 1
	AttrString  AttrType = 2
)

const relationNameWidth = 20

// IndexMetaInfo is the persisted layout of page 1: relation name, the byte
// offset of the indexed attribute inside a relation row, its type, and the
// current root page. Unused trailing bytes are zero.
type IndexMetaInfo struct {
	RelationName   string
	AttrByteOffset int32
	AttrType       AttrType
	RootPageNo     uint32
}

// IndexFileName computes the on-disk base name "<relationName>,<offset>",
// ASCII, no quoting.
func IndexFileName(relationName string, attrByteOffset int32) string {
	return fmt.Sprintf("%s,%d", relationName, attrByteOffset)
}

func encodeMeta(p *storage.Page, m IndexMetaInfo) error {
	name := []byte(m.RelationName)
	if len(name) > relationNameWidth {
		return fmt.Errorf("btree: relation name %q exceeds %d bytes", m.RelationName, relationNameWidth)
	}
	var nameBuf [relationNameWidth]byte
	copy(nameBuf[:], name)
	copy(p.Buf[0:relationNameWidth], nameBuf[:])

	bx.PutI32At(p.Buf, relationNameWidth, m.AttrByteOffset)
	bx.PutI32At(p.Buf, relationNameWidth+4, int32(m.AttrType))
	bx.PutU32At(p.Buf, relationNameWidth+8, m.RootPageNo)
	return nil
}

func decodeMeta(p *storage.Page) IndexMetaInfo {
	nameBytes := p.Buf[0:relationNameWidth]
	end := bytes.IndexByte(nameBytes, 0)
	if end == -1 {
		end = relationNameWidth
	}
	return IndexMetaInfo{
		RelationName:   string(nameBytes[:end]),
		AttrByteOffset: bx.I32At(p.Buf, relationNameWidth),
		AttrType:       AttrType(bx.I32At(p.Buf, relationNameWidth+4)),
		RootPageNo:     bx.U32At(p.Buf, relationNameWidth+8),
	}
}
