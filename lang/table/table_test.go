package table_test

import (
	"testing"

	"github.com/ico-lang/ico/lang/table"
	"github.com/ico-lang/ico/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	var tb table.Table

	isNew := tb.Set(value.Int(1), value.Bool(true))
	assert.True(t, isNew)
	isNew = tb.Set(value.Int(1), value.Bool(false))
	assert.False(t, isNew)

	got, ok := tb.Get(value.Int(1))
	require.True(t, ok)
	assert.Equal(t, value.Bool(false), got)

	_, ok = tb.Get(value.Int(2))
	assert.False(t, ok)

	assert.True(t, tb.Delete(value.Int(1)))
	_, ok = tb.Get(value.Int(1))
	assert.False(t, ok)
	assert.False(t, tb.Delete(value.Int(1)))
}

func TestTombstoneReuseKeepsProbeChainIntact(t *testing.T) {
	var tb table.Table

	// three keys are inserted, the middle one deleted, then a fourth
	// inserted: the lookup for the third key must still succeed, proving the
	// tombstone left behind does not break its probe chain.
	tb.Set(value.Int(10), value.Int(1))
	tb.Set(value.Int(18), value.Int(2)) // 8 entries initial capacity, likely collides with 10
	tb.Set(value.Int(26), value.Int(3))

	require.True(t, tb.Delete(value.Int(18)))

	got, ok := tb.Get(value.Int(26))
	require.True(t, ok)
	assert.Equal(t, value.Int(3), got)

	tb.Set(value.Int(34), value.Int(4))
	got, ok = tb.Get(value.Int(34))
	require.True(t, ok)
	assert.Equal(t, value.Int(4), got)
}

func TestGrowsPastLoadFactor(t *testing.T) {
	var tb table.Table
	for i := 0; i < 100; i++ {
		tb.Set(value.Int(int64(i)), value.Int(int64(i*2)))
	}
	assert.Equal(t, 100, tb.Len())
	for i := 0; i < 100; i++ {
		got, ok := tb.Get(value.Int(int64(i)))
		require.True(t, ok)
		assert.Equal(t, value.Int(int64(i*2)), got)
	}
}

func TestFindStringLocatesInternedContent(t *testing.T) {
	var tb table.Table
	s := value.NewString("hello")
	tb.Set(value.FromObject(s), value.Bool(true))

	found := tb.FindString("hello", value.HashBytes([]byte("hello")))
	require.NotNil(t, found)
	assert.Same(t, s, found)

	assert.Nil(t, tb.FindString("nope", value.HashBytes([]byte("nope"))))
}

func TestFindStringOnEmptyTable(t *testing.T) {
	var tb table.Table
	assert.Nil(t, tb.FindString("x", value.HashBytes([]byte("x"))))
}

func TestAddAllCopiesLiveEntriesOnly(t *testing.T) {
	var src, dst table.Table
	src.Set(value.Int(1), value.Int(100))
	src.Set(value.Int(2), value.Int(200))
	src.Delete(value.Int(2))

	dst.AddAll(&src)
	assert.Equal(t, 1, dst.Len())
	got, ok := dst.Get(value.Int(1))
	require.True(t, ok)
	assert.Equal(t, value.Int(100), got)

	_, ok = dst.Get(value.Int(2))
	assert.False(t, ok)
}

func TestEachVisitsOnlyLiveEntries(t *testing.T) {
	var tb table.Table
	tb.Set(value.Int(1), value.Int(1))
	tb.Set(value.Int(2), value.Int(2))
	tb.Delete(value.Int(1))

	seen := map[int64]int64{}
	tb.Each(func(e table.Entry) {
		seen[e.Key.AsInt()] = e.Value.AsInt()
	})
	assert.Equal(t, map[int64]int64{2: 2}, seen)
}

func TestBoolAndFloatKeys(t *testing.T) {
	var tb table.Table
	tb.Set(value.Bool(true), value.Int(1))
	tb.Set(value.Bool(false), value.Int(2))
	tb.Set(value.Float(3.14), value.Int(3))

	got, ok := tb.Get(value.Bool(true))
	require.True(t, ok)
	assert.Equal(t, value.Int(1), got)

	got, ok = tb.Get(value.Bool(false))
	require.True(t, ok)
	assert.Equal(t, value.Int(2), got)

	got, ok = tb.Get(value.Float(3.14))
	require.True(t, ok)
	assert.Equal(t, value.Int(3), got)
}
