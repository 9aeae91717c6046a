// File: core/seq/policy.go
// License: Apache-2.0

package seq

import "math"

// GrowthPolicy decides how far ahead of demand a sequence reserves capacity.
type GrowthPolicy struct {
	// MinCapacity is the first allocation's size in bytes.
	MinCapacity int

	// Factor multiplies the capacity on each growth step.
	Factor int
}

// DefaultPolicy doubles from a small first allocation.
var DefaultPolicy = GrowthPolicy{MinCapacity: 8, Factor: 2}

func (p GrowthPolicy) normalized() GrowthPolicy {
	if p.MinCapacity < 1 {
		p.MinCapacity = DefaultPolicy.MinCapacity
	}
	if p.Factor < 2 {
		p.Factor = DefaultPolicy.Factor
	}
	return p
}

// Next returns the capacity to request so that at least needed bytes fit:
// the current capacity (or MinCapacity when starting from nothing) scaled by
// Factor until it covers needed.
func (p GrowthPolicy) Next(current, needed int) int {
	p = p.normalized()
	target := current
	if target < p.MinCapacity {
		target = p.MinCapacity
	}
	for target < needed {
		if target > math.MaxInt/p.Factor {
			// Scaling further would overflow; hand the raw requirement to
			// the storage and let its capacity validation decide.
			return needed
		}
		target *= p.Factor
	}
	return target
}
