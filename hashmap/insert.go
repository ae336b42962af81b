package hashmap

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Insert copies key and value into the table. It returns ErrDuplicate when
// key is already present, in which case nothing changes.
func (t *Table) Insert(key, value []byte) error {
	if t == nil || t.slots == nil {
		return ErrFreed
	}
	if len(key) == 0 {
		return ErrEmptyKey
	}

	hash := t.hash(key)
	if t.lookup(hash, key) != nil {
		return ErrDuplicate
	}

	// Reserve for the worst case, a new chain link, before anything moves so
	// that a rejected insert leaves the table as it was.
	need := payloadSize(key, value) + entrySize
	if err := t.mem.reserve(need); err != nil {
		t.logger.Warn("insert rejected by memory budget",
			zap.Int64("need", need),
			zap.Int64("used", t.mem.load()),
			zap.Int64("max", t.mem.max))
		return err
	}

	// Only occupied heads count towards the load, long chains alone never
	// trigger a grow.
	if float64(t.entries-t.overflow) > float64(len(t.slots))*loadFactor {
		if err := t.grow(); err != nil {
			t.mem.release(need)
			return err
		}
	}

	head := &t.slots[hash&t.mask()]
	e := entry{hash: hash, key: clone(key), value: clone(value)}
	if !head.occupied() {
		t.mem.release(entrySize)
		*head = e
	} else {
		tail := head
		for tail.next != nil {
			tail = tail.next
		}
		tail.next = &e
		t.overflow++
	}
	t.entries++
	t.payload += payloadSize(key, value)
	return nil
}

// InsertAll inserts pairs in order. A failing pair does not stop the
// remaining ones; all failures are combined in the returned error.
func (t *Table) InsertAll(pairs []Pair) error {
	var err error
	for _, p := range pairs {
		err = multierr.Append(err, t.Insert(p.Key, p.Value))
	}
	return err
}

// grow doubles the slot array and moves every entry to its index under the
// new mask. Keys are known to be unique so no duplicate check runs, and the
// key/value buffers and chain links are moved rather than copied.
func (t *Table) grow() error {
	oldCap := len(t.slots)
	newCap := oldCap * 2

	// Both arrays are alive until the move finishes.
	if err := t.mem.reserve(int64(newCap) * entrySize); err != nil {
		t.logger.Warn("grow rejected by memory budget",
			zap.Int("from", oldCap),
			zap.Int("to", newCap),
			zap.Int64("used", t.mem.load()),
			zap.Int64("max", t.mem.max))
		return err
	}

	r := rehash{slots: make([]entry, newCap), mask: uint32(newCap - 1)}
	for i := range t.slots {
		head := &t.slots[i]
		if !head.occupied() {
			continue
		}
		link := head.next
		r.place(entry{hash: head.hash, key: head.key, value: head.value}, nil)
		for link != nil {
			next := link.next
			link.next = nil
			r.place(*link, link)
			link = next
		}
	}

	// Entries of one old slot only spread over two new slots, and no two old
	// slots share a new one, so the new layout never needs more links.
	t.mem.release(int64(oldCap)*entrySize + int64(t.overflow-r.overflow)*entrySize)

	t.logger.Debug("grow table",
		zap.Int("from", oldCap),
		zap.Int("to", newCap),
		zap.Uint32("entries", r.entries),
		zap.Uint32("overflow", r.overflow))

	t.slots = r.slots
	t.entries = r.entries
	t.overflow = r.overflow
	t.gen++
	return nil
}

// rehash is the destination layout of a grow.
type rehash struct {
	slots    []entry
	mask     uint32
	entries  uint32
	overflow uint32
}

// place puts e at its index. link is the chain node e came from, if any, and
// is reused when e lands in a chain.
func (r *rehash) place(e entry, link *entry) {
	head := &r.slots[e.hash&r.mask]
	r.entries++
	if !head.occupied() {
		e.next = nil
		*head = e
		return
	}
	if link == nil {
		link = &entry{hash: e.hash, key: e.key, value: e.value}
	}
	tail := head
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = link
	r.overflow++
}

func clone(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
