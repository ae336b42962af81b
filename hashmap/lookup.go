package hashmap

// lookup scans the chain of key's slot. The hash is compared first, the
// bytes only on a hash match.
func (t *Table) lookup(hash uint32, key []byte) *entry {
	if len(t.slots) == 0 || len(key) == 0 {
		return nil
	}
	for e := &t.slots[hash&t.mask()]; e != nil && e.occupied(); e = e.next {
		if e.hash == hash && len(e.key) == len(key) && string(e.key) == string(key) {
			return e
		}
	}
	return nil
}

// Exists reports whether key is stored in the table.
func (t *Table) Exists(key []byte) bool {
	if t == nil || len(t.slots) == 0 {
		return false
	}
	return t.lookup(t.hash(key), key) != nil
}

// Get returns the stored value for key. The returned slice aliases the
// table's copy and is only valid until the next mutation of the table.
func (t *Table) Get(key []byte) ([]byte, bool) {
	if t == nil || len(t.slots) == 0 {
		return nil, false
	}
	e := t.lookup(t.hash(key), key)
	if e == nil {
		return nil, false
	}
	return e.value, true
}
