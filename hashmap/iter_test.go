package hashmap

import (
	"strconv"
	"testing"

	"github.com/fzft/go-hashmap/hashfn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestIteratorEmpty(t *testing.T) {
	ht := newTable(t, hashfn.FNV32a)
	it, ok := ht.Iterator()
	assert.False(t, ok)
	assert.Nil(t, it)

	var nilTable *Table
	_, ok = nilTable.Iterator()
	assert.False(t, ok)
}

func TestIteratorMatchesDump(t *testing.T) {
	ht := newTable(t, halfAtoi, WithCapacity(8))
	const n = 500
	for i := 0; i < n; i++ {
		require.NoError(t, ht.Insert([]byte(strconv.Itoa(i)), []byte(strconv.Itoa(-i))))
	}

	dump := ht.Dump()
	require.Len(t, dump, ht.Len())

	i := 0
	seen := make(map[string]bool, n)
	it, ok := ht.Iterator()
	require.True(t, ok)
	for ; ok; ok = it.Next() {
		require.Less(t, i, len(dump))
		assert.Equal(t, dump[i].Key, it.Key())
		assert.Equal(t, dump[i].Value, it.Value())
		assert.False(t, seen[string(it.Key())], "key %s visited twice", it.Key())
		seen[string(it.Key())] = true
		i++
	}
	assert.Equal(t, n, i)
	assert.NoError(t, it.Err())
	assert.Nil(t, it.Key(), "exhausted iterator has no entry")
	assert.False(t, it.Next())
}

func TestIteratorLastSlot(t *testing.T) {
	ht := newTable(t, fixedHash(map[string]uint32{"x": 3, "y": 3}), WithCapacity(4))
	require.NoError(t, ht.Insert([]byte("x"), nil))
	require.NoError(t, ht.Insert([]byte("y"), nil))

	it, ok := ht.Iterator()
	require.True(t, ok)
	assert.Equal(t, "x", string(it.Key()))
	require.True(t, it.Next())
	assert.Equal(t, "y", string(it.Key()))
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestIteratorInvalidatedByGrow(t *testing.T) {
	ht := newTable(t, hashfn.FNV32a, WithCapacity(4))
	require.NoError(t, ht.Insert([]byte("a"), []byte("1")))

	it, ok := ht.Iterator()
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		require.NoError(t, ht.Insert([]byte(strconv.Itoa(i)), nil))
	}
	require.Greater(t, ht.Cap(), 4)

	assert.Nil(t, it.Key())
	assert.Nil(t, it.Value())
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrStaleIterator)
}

func TestIteratorInvalidatedByClearAndFree(t *testing.T) {
	ht := newTable(t, hashfn.FNV32a)
	require.NoError(t, ht.Insert([]byte("a"), []byte("1")))

	it, ok := ht.Iterator()
	require.True(t, ok)
	ht.Clear()
	assert.ErrorIs(t, it.Err(), ErrStaleIterator)
	assert.False(t, it.Next())

	require.NoError(t, ht.Insert([]byte("a"), []byte("1")))
	it, ok = ht.Iterator()
	require.True(t, ok)
	ht.Free()
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrStaleIterator)
}

func TestIteratorSurvivesPlainInsert(t *testing.T) {
	ht := newTable(t, hashfn.FNV32a, WithCapacity(64))
	require.NoError(t, ht.Insert([]byte("a"), []byte("1")))
	it, ok := ht.Iterator()
	require.True(t, ok)

	require.NoError(t, ht.Insert([]byte("b"), []byte("2")))
	assert.Equal(t, "a", string(it.Key()))
	assert.NoError(t, it.Err())
}

func TestRange(t *testing.T) {
	ht := newTable(t, hashfn.FNV32a)
	for i := 0; i < 10; i++ {
		require.NoError(t, ht.Insert([]byte(strconv.Itoa(i)), nil))
	}

	var all int
	ht.Range(func(key, value []byte) bool {
		all++
		return true
	})
	assert.Equal(t, 10, all)

	var some int
	ht.Range(func(key, value []byte) bool {
		some++
		return some < 3
	})
	assert.Equal(t, 3, some)
}

func TestGrowLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ht := newTable(t, hashfn.FNV32a, WithCapacity(2), WithLogger(zap.New(core)))
	for i := 0; i < 8; i++ {
		require.NoError(t, ht.Insert([]byte(strconv.Itoa(i)), nil))
	}

	grows := logs.FilterMessage("grow table").All()
	require.NotEmpty(t, grows)
	first := grows[0].ContextMap()
	assert.Equal(t, int64(2), first["from"])
	assert.Equal(t, int64(4), first["to"])

	ht.Clear()
	assert.Equal(t, 1, logs.FilterMessage("clear table").Len())
}

func TestBudgetLogs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ht := newTable(t, hashfn.FNV32a, WithCapacity(1), WithMaxMemory(entrySize+4),
		WithLogger(zap.New(core)))

	assert.ErrorIs(t, ht.Insert([]byte("key"), []byte("value")), ErrAllocation)
	entries := logs.FilterMessage("insert rejected by memory budget").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}
