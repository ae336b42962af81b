package hashmap

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// entrySize is the cost of one slot head or one chain link.
var entrySize = int64(unsafe.Sizeof(entry{}))

// memAccount tracks the bytes a table owns: its slot array, its chain links
// and the copied key/value bytes. max == 0 disables the budget.
type memAccount struct {
	used int64
	max  int64
}

func (m *memAccount) reserve(n int64) error {
	used := atomic.LoadInt64(&m.used)
	if m.max > 0 && used+n > m.max {
		return fmt.Errorf("%w: need %d bytes, %d of %d in use", ErrAllocation, n, used, m.max)
	}
	atomic.AddInt64(&m.used, n)
	return nil
}

func (m *memAccount) release(n int64) {
	atomic.AddInt64(&m.used, -n)
}

func (m *memAccount) reset(n int64) {
	atomic.StoreInt64(&m.used, n)
}

func (m *memAccount) load() int64 {
	return atomic.LoadInt64(&m.used)
}

// payloadSize is the number of owned bytes an entry holds besides itself.
func payloadSize(key, value []byte) int64 {
	return int64(len(key) + len(value))
}
