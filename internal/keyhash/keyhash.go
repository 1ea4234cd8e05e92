// Package keyhash provides the default 32-bit key hashers that stand in
// for the collaborator hash functions the spec assumes are available
// externally: a primary 32->32 hash and an independent secondary 32->32
// hash used when a kernel's hash-bit budget is exhausted (see §4 "C2-bloom"
// and §6 of SPEC_FULL.md).
//
// The root package's Construct always uses Default; it offers no way to
// substitute another Hasher.
package keyhash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Hasher supplies the two independent 32-bit hash functions a block
// kernel needs: Primary for block addressing and in-block positions,
// Secondary for the Bloom rehash fallback when the primary hash's 32 bits
// cannot cover both, and for every cuckoo fingerprint.
type Hasher interface {
	Primary(key uint32) uint32
	Secondary(key uint32) uint32
}

// Default returns the module's built-in Hasher: murmur3 for Primary,
// xxhash (64-bit, folded to 32 bits) for Secondary. The two are built on
// independently-sourced algorithms so that Primary and Secondary are not
// merely re-seedings of the same mix.
func Default() Hasher { return defaultHasher{} }

type defaultHasher struct{}

func (defaultHasher) Primary(key uint32) uint32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], key)
	return murmur3.Sum32(buf[:])
}

func (defaultHasher) Secondary(key uint32) uint32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], key^0x9e3779b9)
	h := xxhash.Sum64(buf[:])
	return uint32(h) ^ uint32(h>>32) // xor-fold 64 -> 32 bits
}
