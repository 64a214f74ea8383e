package btree

import (
	"fmt"
	"math/bits"
	"os"
	"strconv"
)

// DefaultFanFactor is used by Build/Update when no WithFanFactor option
// is supplied and BTREE_FAN_FACTOR is unset, matching the original's
// default branching factor.
const DefaultFanFactor = 32

// Config holds tunables resolved once at process start, mirroring the
// teacher's env-driven Config struct.
type Config struct {
	// FanFactor is the number of keys below which a node never splits
	// (F in the spec's vocabulary); it must be a power of two. Nodes
	// hold between FanFactor/2 and FanFactor keys once built, except
	// for the root, which may be smaller.
	FanFactor int
}

var globalConfig = Config{FanFactor: DefaultFanFactor}

// Configure validates and installs c as the process-wide default
// configuration, consulted by Build/Update calls that don't pass
// WithFanFactor explicitly. It returns an *Error with code
// ErrInvalidFanFactor if c.FanFactor isn't a positive power of two.
func Configure(c Config) error {
	if err := validateFanFactor(c.FanFactor); err != nil {
		return err
	}
	globalConfig = c
	return nil
}

func validateFanFactor(f int) error {
	if f <= 0 || bits.OnesCount(uint(f)) != 1 {
		return newError(ErrInvalidFanFactor, fmt.Sprintf("fan factor %d is not a positive power of two", f))
	}
	return nil
}

// init mirrors the teacher's pattern of seeding Config from the
// environment at package load, so BTREE_FAN_FACTOR can override
// DefaultFanFactor without an explicit Configure call.
func init() {
	if v := os.Getenv("BTREE_FAN_FACTOR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && validateFanFactor(n) == nil {
			globalConfig.FanFactor = n
		}
	}
}

// MaxDepth returns the deepest a tree built with the given fan factor
// is allowed to grow, derived as ceil(31 / (s-1)) where fanFactor ==
// 2^s, the same bound the spec places on cursor path-stack depth and
// on the builder's ascend chain. It exists so pathological inputs
// (fanFactor == 1, or more than 2^31 items) are rejected with
// ErrDepthOverflow instead of silently recursing without bound.
func MaxDepth(fanFactor int) int {
	s := bits.TrailingZeros(uint(fanFactor))
	if s <= 1 {
		// fanFactor == 1 (s == 0) or fanFactor == 2 (s == 1): every
		// level holds at most one extra key per split, so depth is
		// bounded only by item count; report the 31-bit worst case.
		return 31
	}
	return (31 + s - 2) / (s - 1) // ceil(31 / (s-1))
}
