package prng

import "fmt"

// Bounded draws a value in [0, bound) without modulo bias. Samples at or
// above max - max%bound are rejected and redrawn.
func Bounded(src Source, bound uint64) uint64 {
	max := src.Max()
	if bound == 0 || bound > max {
		panic(fmt.Sprintf("prng: bound %d outside (0, %d]", bound, max))
	}
	limit := max - max%bound
	for {
		r := src.Next()
		if r < limit {
			return r % bound
		}
	}
}

// IntN returns a value in [0, n).
func IntN(src Source, n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("prng: invalid IntN bound %d", n))
	}
	return int(Bounded(src, uint64(n)))
}

// Range returns a value in [lo, hi).
func Range(src Source, lo, hi int) int {
	if hi <= lo {
		panic(fmt.Sprintf("prng: empty range [%d, %d)", lo, hi))
	}
	return lo + int(Bounded(src, uint64(hi-lo)))
}

// Float64 returns a value in [0, 1) built from the top 53 bits of a draw.
func Float64(src Source) float64 {
	max := src.Max()
	if max == ^uint64(0) {
		return float64(src.Next()>>11) / (1 << 53)
	}
	return float64(src.Next()) / (float64(max) + 1)
}

// Shuffle permutes n elements in place using Fisher–Yates. It performs
// exactly n-1 swaps; swap i exchanges i with i+Bounded(n-i).
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := 0; i < n-1; i++ {
		j := i + int(Bounded(src, uint64(n-i)))
		swap(i, j)
	}
}

func ShuffleSlice[T any](src Source, s []T) {
	Shuffle(src, len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
