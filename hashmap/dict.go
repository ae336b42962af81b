// Package hashmap implements a chained hash table over opaque byte keys and
// values with a caller supplied hash function.
package hashmap

import (
	"fmt"

	"github.com/fzft/go-hashmap/log"
	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the number of slots of a table built without
	// WithCapacity.
	DefaultCapacity = 16

	loadFactor = 0.75
)

// HashFunc maps a key to a 32-bit hash. It must be deterministic for the
// lifetime of the table.
type HashFunc func(key []byte) uint32

// entry is a slot head or a link of the slot's overflow chain. A head with an
// empty key is unoccupied.
type entry struct {
	hash  uint32
	key   []byte
	value []byte
	next  *entry
}

func (e *entry) occupied() bool {
	return len(e.key) > 0
}

// Table is a chained hash table over opaque byte keys and values.
//
// Keys and values are copied on insert; the caller's buffers are never
// retained. A Table is not safe for concurrent use.
type Table struct {
	slots    []entry
	entries  uint32
	overflow uint32
	hash     HashFunc

	// gen is bumped whenever entries move or disappear, see Iterator.
	gen     uint64
	mem     memAccount
	payload int64
	logger  *zap.Logger
}

type options struct {
	capacity  int
	maxMemory int64
	logger    *zap.Logger
}

type Option func(*options)

// WithCapacity sets the initial number of slots. It must be a positive power
// of two.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithMaxMemory caps the bytes the table may own. Zero means no limit.
func WithMaxMemory(n int64) Option {
	return func(o *options) {
		o.maxMemory = n
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New returns an empty table using hash to place keys.
func New(hash HashFunc, opts ...Option) (*Table, error) {
	o := options{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	if hash == nil {
		return nil, ErrNilHash
	}
	if o.capacity <= 0 || o.capacity&(o.capacity-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, o.capacity)
	}
	if o.logger == nil {
		o.logger = log.Logger
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	t := &Table{
		hash:   hash,
		mem:    memAccount{max: o.maxMemory},
		logger: o.logger,
	}
	if err := t.mem.reserve(int64(o.capacity) * entrySize); err != nil {
		return nil, err
	}
	t.slots = make([]entry, o.capacity)
	return t, nil
}

func (t *Table) mask() uint32 {
	return uint32(len(t.slots) - 1)
}

// Len returns the number of entries in the table
func (t *Table) Len() int {
	return int(t.entries)
}

// Cap returns the number of slots
func (t *Table) Cap() int {
	return len(t.slots)
}

// Overflow returns the number of entries stored in chains past a slot head.
func (t *Table) Overflow() int {
	return int(t.overflow)
}

// Empty returns true if the table holds no entries
func (t *Table) Empty() bool {
	return t.entries == 0
}

// UsedMemory returns the bytes currently owned by the table.
func (t *Table) UsedMemory() int64 {
	return t.mem.load()
}

// Clear drops every entry but keeps the slot array and its capacity.
func (t *Table) Clear() {
	if t == nil || t.slots == nil {
		return
	}
	for i := range t.slots {
		t.slots[i] = entry{}
	}
	t.logger.Debug("clear table",
		zap.Int("capacity", len(t.slots)),
		zap.Uint32("entries", t.entries))
	t.entries, t.overflow, t.payload = 0, 0, 0
	t.mem.reset(int64(len(t.slots)) * entrySize)
	t.gen++
}

// Free releases every entry and the slot array. The table cannot be used for
// inserts afterwards. Free on a nil table is a no-op.
func (t *Table) Free() {
	if t == nil {
		return
	}
	t.slots = nil
	t.entries, t.overflow, t.payload = 0, 0, 0
	t.mem.reset(0)
	t.gen++
}
