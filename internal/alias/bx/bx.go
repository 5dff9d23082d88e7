// Package bx holds the little-endian field codec every on-disk layout in
// this module shares: meta page fields, node headers, relation rows. Every
// persisted integer here is 32-bit (page ids, record ids, keys), so unlike
// a general-purpose byte-helper package, bx only carries the u32/i32
// primitives this module's layouts actually use.
package bx

import "encoding/binary"

var le = binary.LittleEndian

func U32(b []byte) uint32       { return le.Uint32(b) }
func PutU32(b []byte, v uint32) { le.PutUint32(b, v) }

func U32At(b []byte, off int) uint32       { return U32(b[off:]) }
func PutU32At(b []byte, off int, v uint32) { PutU32(b[off:], v) }

func I32At(b []byte, off int) int32       { return int32(U32At(b, off)) }
func PutI32At(b []byte, off int, v int32) { PutU32At(b, off, uint32(v)) }
