package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageManager_LoadPage(t *testing.T) {
	fs := LocalFileSet{Dir: t.TempDir(), Base: "segment"}
	sm := NewStorageManager()

	pg, err := sm.LoadPage(fs, 0)
	require.NoError(t, err)
	assert.NotNil(t, pg)
	assert.IsType(t, &Page{}, pg)
	assert.True(t, pg.IsZero())
}

func TestStorageManager_SaveThenLoadRoundTrips(t *testing.T) {
	fs := LocalFileSet{Dir: t.TempDir(), Base: "segment"}
	sm := NewStorageManager()

	p := ZeroPage(3)
	p.Buf[0] = 0x42
	require.NoError(t, sm.SavePage(fs, 3, *p))

	got, err := sm.LoadPage(fs, 3)
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), got.Buf[0])
}

func TestStorageManager_CountPages(t *testing.T) {
	fs := LocalFileSet{Dir: t.TempDir(), Base: "segment"}
	sm := NewStorageManager()

	require.NoError(t, sm.SavePage(fs, 0, *ZeroPage(0)))
	require.NoError(t, sm.SavePage(fs, 1, *ZeroPage(1)))

	n, err := sm.CountPages(fs)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n)
}
