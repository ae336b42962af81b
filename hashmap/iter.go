package hashmap

// Iterator is a cursor over the entries of a table, in slot order and,
// within a slot, head first then chain order.
//
// An iterator borrows the table. Growing, clearing or freeing the table
// invalidates it: Key and Value return nil, Next returns false and Err
// returns ErrStaleIterator.
type Iterator struct {
	t     *Table
	gen   uint64
	index int
	cur   *entry
	err   error
}

// Iterator returns a cursor positioned on the first entry. The boolean is
// false when the table has no entries.
//
//	for it, ok := t.Iterator(); ok; ok = it.Next() {
//		use(it.Key(), it.Value())
//	}
func (t *Table) Iterator() (*Iterator, bool) {
	if t == nil || t.entries == 0 {
		return nil, false
	}
	it := &Iterator{t: t, gen: t.gen}
	if !it.seek(0) {
		return nil, false
	}
	return it, true
}

// seek moves to the first occupied slot head at or after index from.
func (it *Iterator) seek(from int) bool {
	slots := it.t.slots
	for i := from; i < len(slots); i++ {
		if slots[i].occupied() {
			it.index = i
			it.cur = &slots[i]
			return true
		}
	}
	it.index = len(slots)
	it.cur = nil
	return false
}

func (it *Iterator) valid() bool {
	if it.err != nil {
		return false
	}
	if it.gen != it.t.gen {
		it.err = ErrStaleIterator
		it.cur = nil
		return false
	}
	return it.cur != nil
}

// Next advances the cursor and reports whether it is on an entry.
func (it *Iterator) Next() bool {
	if !it.valid() {
		return false
	}
	if it.cur.next != nil {
		it.cur = it.cur.next
		return true
	}
	return it.seek(it.index + 1)
}

// Key returns the key under the cursor. It aliases the table's copy.
func (it *Iterator) Key() []byte {
	if !it.valid() {
		return nil
	}
	return it.cur.key
}

// Value returns the value under the cursor. It aliases the table's copy.
func (it *Iterator) Value() []byte {
	if !it.valid() {
		return nil
	}
	return it.cur.value
}

// Err returns ErrStaleIterator if the table changed under the cursor.
func (it *Iterator) Err() error {
	if it.err == nil && it.gen != it.t.gen {
		it.err = ErrStaleIterator
		it.cur = nil
	}
	return it.err
}
