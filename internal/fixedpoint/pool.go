package fixedpoint

import (
	"sync"

	"github.com/holiman/uint256"
)

// u256Pool recycles scratch uint256.Int values so the hot quoting path
// (single-pool swap steps, tick conversions) doesn't allocate on every
// multiplication.
var u256Pool = sync.Pool{
	New: func() interface{} {
		return new(uint256.Int)
	},
}

// getU256 borrows a zeroed scratch value from the pool.
func getU256() *uint256.Int {
	v := u256Pool.Get().(*uint256.Int)
	v.Clear()
	return v
}

// putU256 returns v to the pool.
func putU256(v *uint256.Int) {
	u256Pool.Put(v)
}
