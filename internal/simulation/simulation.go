// Package simulation enumerates option combinations of a product and
// classifies each one as pass, warn or error before publication.
package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// MaxCases is the largest combination count run without sample or forceRun.
// Exactly MaxCases is still allowed.
const MaxCases = 10000

// MaxEnumerated is the largest combination list that is ever built in
// memory. Sampling above it draws indices instead of enumerating.
const MaxEnumerated = 1_000_000

// ErrTooManyCombinations is returned when a run would have to enumerate more
// than MaxEnumerated combinations, or the count does not fit in an int.
var ErrTooManyCombinations = errors.New("too many combinations to enumerate")

// ProgressInterval is how many cases run between progress callbacks and
// cancellation checks.
const ProgressInterval = 100

// Selections maps an option type key to the chosen choice code.
type Selections map[string]string

// OptionSet is one axis of the cartesian product.
type OptionSet struct {
	TypeKey string   `json:"typeKey" yaml:"typeKey"`
	Choices []string `json:"choices" yaml:"choices"`
}

// CartesianProduct returns every combination of one choice per set. The first
// set varies slowest, so equal input gives equal output order. The product of
// zero sets is a single empty combination; a set without choices yields no
// combinations. Callers check CombinationCount first; the result is never
// capped.
func CartesianProduct(sets []OptionSet) []Selections {
	total, overflow := CombinationCount(sets)
	if total == 0 {
		return []Selections{}
	}
	capHint := total
	if overflow || capHint > MaxCases {
		capHint = MaxCases
	}
	out := make([]Selections, 0, capHint)

	idx := make([]int, len(sets))
	for {
		combo := make(Selections, len(sets))
		for i, set := range sets {
			combo[set.TypeKey] = set.Choices[idx[i]]
		}
		out = append(out, combo)

		// advance the odometer, last set fastest
		pos := len(sets) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(sets[pos].Choices) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return out
		}
	}
}

// CombinationCount returns the size of the cartesian product of sets. When
// the product does not fit in an int, n is math.MaxInt and overflow is set.
func CombinationCount(sets []OptionSet) (n int, overflow bool) {
	for _, set := range sets {
		if len(set.Choices) == 0 {
			return 0, false
		}
	}
	n = 1
	for _, set := range sets {
		c := len(set.Choices)
		if n > math.MaxInt/c {
			return math.MaxInt, true
		}
		n *= c
	}
	return n, false
}

// combinationAt decodes the idx-th combination in CartesianProduct order.
func combinationAt(sets []OptionSet, idx int) Selections {
	combo := make(Selections, len(sets))
	for i := len(sets) - 1; i >= 0; i-- {
		c := len(sets[i].Choices)
		combo[sets[i].TypeKey] = sets[i].Choices[idx%c]
		idx /= c
	}
	return combo
}

// ResolveOptionSets counts the combinations of sets before building any of
// them. Above MaxCases without sample or forceRun the resolution is TooLarge
// and nothing is enumerated. A sample above MaxEnumerated draws MaxCases
// indices and decodes them in enumeration order. A forced run above
// MaxEnumerated, or any count that overflows, fails with
// ErrTooManyCombinations.
func ResolveOptionSets(sets []OptionSet, opts ResolveOptions) (Resolution, error) {
	total, overflow := CombinationCount(sets)
	if !overflow && total <= MaxCases {
		return Resolution{Total: total, Combinations: CartesianProduct(sets)}, nil
	}
	if !opts.Sample && !opts.ForceRun {
		return Resolution{TooLarge: true, Overflow: overflow, Total: total, SampleSize: MaxCases}, nil
	}
	if overflow {
		return Resolution{}, fmt.Errorf("combination count overflows: %w", ErrTooManyCombinations)
	}
	if total <= MaxEnumerated {
		return ResolveCombinations(CartesianProduct(sets), opts), nil
	}
	if opts.ForceRun {
		return Resolution{}, fmt.Errorf("%d combinations, at most %d can run: %w", total, MaxEnumerated, ErrTooManyCombinations)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	combos := make([]Selections, 0, MaxCases)
	for _, idx := range sampleIndices(total, MaxCases, rng) {
		combos = append(combos, combinationAt(sets, idx))
	}
	return Resolution{Total: total, SampleSize: MaxCases, Combinations: combos}, nil
}

// sampleIndices draws k distinct indices below n with Floyd's algorithm and
// returns them sorted.
func sampleIndices(n, k int, rng *rand.Rand) []int {
	seen := make(map[int]struct{}, k)
	out := make([]int, 0, k)
	for j := n - k; j < n; j++ {
		t := int(rng.Int63n(int64(j) + 1))
		if _, ok := seen[t]; ok {
			t = j
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

// ResolveOptions controls what happens when there are too many combinations.
type ResolveOptions struct {
	// Sample runs a uniform sample of MaxCases combinations.
	Sample bool
	// ForceRun runs every combination regardless of count.
	ForceRun bool
	// Rand is the sampling source; nil uses a time-seeded source.
	Rand *rand.Rand
}

// Resolution is the outcome of ResolveCombinations. When TooLarge is set,
// Combinations is nil and the caller should ask for sample or forceRun.
type Resolution struct {
	TooLarge     bool         `json:"tooLarge"`
	Overflow     bool         `json:"overflow,omitempty"`
	Total        int          `json:"total"`
	SampleSize   int          `json:"sampleSize,omitempty"`
	Combinations []Selections `json:"-"`
}

// ResolveCombinations applies the MaxCases threshold to a combination list.
func ResolveCombinations(combos []Selections, opts ResolveOptions) Resolution {
	total := len(combos)
	if total <= MaxCases || opts.ForceRun {
		return Resolution{Total: total, Combinations: combos}
	}
	if opts.Sample {
		return Resolution{Total: total, SampleSize: MaxCases, Combinations: SampleN(combos, MaxCases, opts.Rand)}
	}
	return Resolution{TooLarge: true, Total: total, SampleSize: MaxCases}
}

// SampleN returns min(n, len(items)) items drawn uniformly without
// replacement. When nothing has to be dropped the input order is kept. The
// sample is drawn with a partial Fisher-Yates shuffle over indices and then
// put back into input order.
func SampleN[T any](items []T, n int, rng *rand.Rand) []T {
	if n >= len(items) {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	if n <= 0 {
		return []T{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	perm := make([]int, len(items))
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(perm)-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	chosen := perm[:n]
	sort.Ints(chosen)

	out := make([]T, n)
	for i, idx := range chosen {
		out[i] = items[idx]
	}
	return out
}
