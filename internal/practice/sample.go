package practice

import "math/rand/v2"

// Weighted pairs an item with its integer selection weight.
type Weighted[T any] struct {
	Item   T
	Weight int
}

// Shuffle returns a uniformly random permutation of items. The input is
// never modified.
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// TotalWeight sums the positive weights of pool.
func TotalWeight[T any](pool []Weighted[T]) int {
	total := 0
	for _, w := range pool {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	return total
}

// Draw extracts the item owning point in [0, TotalWeight(pool)) by walking
// cumulative weights. It returns the item and a new pool without it; pool
// itself is not modified. ok is false when point is out of range.
func Draw[T any](pool []Weighted[T], point int) (item T, rest []Weighted[T], ok bool) {
	if point < 0 {
		return item, pool, false
	}
	for i, w := range pool {
		if w.Weight <= 0 {
			continue
		}
		if point < w.Weight {
			rest = make([]Weighted[T], 0, len(pool)-1)
			rest = append(rest, pool[:i]...)
			rest = append(rest, pool[i+1:]...)
			return w.Item, rest, true
		}
		point -= w.Weight
	}
	return item, pool, false
}

// Sample draws up to count items by weight without replacement. It stops
// early when the pool runs out of weight.
func Sample[T any](rng *rand.Rand, pool []Weighted[T], count int) []T {
	out := make([]T, 0, min(max(count, 0), len(pool)))
	for len(out) < count {
		total := TotalWeight(pool)
		if total == 0 {
			break
		}
		item, rest, ok := Draw(pool, rng.IntN(total))
		if !ok {
			break
		}
		out = append(out, item)
		pool = rest
	}
	return out
}
