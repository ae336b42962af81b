package hashmap

import (
	"go.uber.org/zap/zapcore"
)

// Pair is a key and its value. Pairs returned by Dump alias the table's
// buffers.
type Pair struct {
	Key   []byte
	Value []byte
}

// Dump returns every entry in iteration order. The slice is new but the keys
// and values are views into the table, valid until its next mutation.
func (t *Table) Dump() []Pair {
	if t == nil || t.entries == 0 {
		return nil
	}
	pairs := make([]Pair, 0, t.entries)
	for i := range t.slots {
		for e := &t.slots[i]; e != nil && e.occupied(); e = e.next {
			pairs = append(pairs, Pair{Key: e.key, Value: e.value})
		}
	}
	return pairs
}

// Range calls fn for every entry in iteration order until fn returns false.
// fn must not mutate the table.
func (t *Table) Range(fn func(key, value []byte) bool) {
	for it, ok := t.Iterator(); ok; ok = it.Next() {
		if !fn(it.Key(), it.Value()) {
			return
		}
	}
}

// Stats is a snapshot of the table layout.
type Stats struct {
	Entries      int
	Overflow     int
	Capacity     int
	Heads        int
	LoadFactor   float64
	LongestChain int
	PayloadBytes int64
	UsedMemory   int64
}

func (t *Table) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	s := Stats{
		Entries:      int(t.entries),
		Overflow:     int(t.overflow),
		Capacity:     len(t.slots),
		Heads:        int(t.entries - t.overflow),
		PayloadBytes: t.payload,
		UsedMemory:   t.mem.load(),
	}
	if s.Capacity > 0 {
		s.LoadFactor = float64(s.Heads) / float64(s.Capacity)
	}
	for i := range t.slots {
		n := 0
		for e := &t.slots[i]; e != nil && e.occupied(); e = e.next {
			n++
		}
		if n > s.LongestChain {
			s.LongestChain = n
		}
	}
	return s
}

// MarshalLogObject lets Stats be logged with zap.Object.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("entries", s.Entries)
	enc.AddInt("overflow", s.Overflow)
	enc.AddInt("capacity", s.Capacity)
	enc.AddInt("heads", s.Heads)
	enc.AddFloat64("load_factor", s.LoadFactor)
	enc.AddInt("longest_chain", s.LongestChain)
	enc.AddInt64("payload_bytes", s.PayloadBytes)
	enc.AddInt64("used_memory", s.UsedMemory)
	return nil
}
