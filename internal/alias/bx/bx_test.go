package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestU32_RoundTripsLittleEndian(t *testing.T) {
	b := make([]byte, 4)
	PutU32(b, 0x01020304)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b)
	assert.Equal(t, uint32(0x01020304), U32(b))
}

func TestU32At_WritesAndReadsAtOffset(t *testing.T) {
	buf := make([]byte, 12)
	PutU32At(buf, 4, 0x0A0B0C0D)
	assert.Equal(t, uint32(0x0A0B0C0D), U32At(buf, 4))
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[0:4])
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[8:12])
}

func TestI32At_RoundTripsNegativeValues(t *testing.T) {
	buf := make([]byte, 4)
	PutI32At(buf, 0, -123456)
	assert.Equal(t, int32(-123456), I32At(buf, 0))
}
