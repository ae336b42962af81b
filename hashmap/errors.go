package hashmap

import (
	"errors"
)

var (
	// ErrDuplicate is returned by Insert when the key is already stored.
	ErrDuplicate = errors.New("hashmap: duplicate key")

	// ErrAllocation is returned when the table's memory budget cannot cover
	// a copy, a chain link or a grow. The table is left untouched.
	ErrAllocation = errors.New("hashmap: allocation failure")

	ErrInvalidCapacity = errors.New("hashmap: capacity must be a positive power of two")
	ErrEmptyKey        = errors.New("hashmap: empty key")
	ErrNilHash         = errors.New("hashmap: nil hash function")
	ErrFreed           = errors.New("hashmap: table has been freed")

	// ErrStaleIterator is reported by an Iterator whose table was grown,
	// cleared or freed after the iterator was created.
	ErrStaleIterator = errors.New("hashmap: iterator invalidated by table mutation")
)
