// Package hashfn holds hash functions over opaque byte keys suitable for
// hashmap.New.
package hashfn

import (
	"hash/fnv"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// FNV32a returns the 32-bit FNV-1a hash of key.
func FNV32a(key []byte) uint32 {
	hasher := fnv.New32a()
	hasher.Write(key)
	return hasher.Sum32()
}

// XXHash returns the 64-bit xxHash of key folded to 32 bits.
func XXHash(key []byte) uint32 {
	h := xxhash.Sum64(key)
	return uint32(h) ^ uint32(h>>32)
}

var registry = map[string]func([]byte) uint32{
	"fnv32a": FNV32a,
	"xxhash": XXHash,
}

// Default is the name of the hash used when none is configured.
const Default = "xxhash"

// ByName looks up a hash function by its registered name.
func ByName(name string) (func([]byte) uint32, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names returns the registered names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
