package book

import "math/bits"

// SweepResult is the outcome of sweeping a target quantity against one
// side's resting orders (spec.md §3 "Sweep result"). The zero value is
// Infeasible, which matches the analyzer driver's initial state.
type SweepResult struct {
	Feasible   bool
	TotalCents uint64
}

// Equal reports whether two sweep results are the same variant and (for
// Feasible) the same cent amount — the comparison the driver uses to
// decide whether to emit a line (spec.md §4.E).
func (r SweepResult) Equal(other SweepResult) bool {
	if r.Feasible != other.Feasible {
		return false
	}
	return !r.Feasible || r.TotalCents == other.TotalCents
}

// Sweep computes the cost (for an ask book) or proceeds (for a bid book)
// of immediately taking targetSize shares from sb, walking the best
// prices first (spec.md §4.D). It never mutates sb.
func Sweep(sb *SideBook, targetSize uint64) SweepResult {
	if sb.TotalSize() < targetSize {
		return SweepResult{Feasible: false}
	}

	remaining := targetSize
	var cost uint64
	sb.IterateLevels(func(priceCents, levelSize uint64) bool {
		take := remaining
		if levelSize < take {
			take = levelSize
		}
		cost = addChecked(cost, mulChecked(priceCents, take))
		remaining -= take
		return remaining > 0
	})

	return SweepResult{Feasible: true, TotalCents: cost}
}

// mulChecked and addChecked guard the accumulator against the overflow
// spec.md §4.D calls "unreachable for valid inputs" but mandates be
// treated as a fatal internal error rather than silently wrapping.
func mulChecked(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		panic("sweep: price*size overflowed uint64")
	}
	return lo
}

func addChecked(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		panic("sweep: running cost overflowed uint64")
	}
	return sum
}
