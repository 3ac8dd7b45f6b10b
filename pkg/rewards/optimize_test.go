package rewards

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestOptimize_MinimumBidInBestTier(t *testing.T) {
	rules := DefaultRules
	domain := rules.Domain(1300, DefaultDomainOptions)
	require.Equal(t, 100.0, domain[0])
	require.Equal(t, 10000.0, domain[len(domain)-1])

	optimum, ok := rules.Optimize(1300, domain)
	require.True(t, ok)
	require.Equal(t, 100.0, optimum.Bid)
	require.Equal(t, 1400.0, optimum.Total)
	require.Equal(t, 1, optimum.Stars)
	require.Equal(t, 5.0, optimum.Prize)
	require.InDelta(t, 5.0/1400, optimum.Efficiency, 1e-12)

	// The optimum is the cheapest bid reaching the tier that maximizes
	// prize / total pool at its lowest qualifying total.
	for _, bid := range domain {
		require.LessOrEqual(t, rules.Efficiency(bid, 1300), optimum.Efficiency)
	}
}

func TestOptimize_BoundaryCrossing(t *testing.T) {
	rules := DefaultRules
	domain := rules.Domain(7400, DefaultDomainOptions)
	require.Contains(t, domain, 101.0)

	optimum, ok := rules.Optimize(7400, domain)
	require.True(t, ok)
	require.Equal(t, 101.0, optimum.Bid)
	require.Equal(t, 3, optimum.Stars)
	require.InDelta(t, 15.0/7501, optimum.Efficiency, 1e-12)
}

func TestOptimize_NoSolution(t *testing.T) {
	rules := DefaultRules
	domain := rules.Domain(21950, DefaultDomainOptions)
	require.Equal(t, []float64{100}, domain)

	_, ok := rules.Optimize(21950, domain)
	require.False(t, ok)

	_, ok = rules.Optimize(1300, nil)
	require.False(t, ok)

	_, ok = rules.Optimize(1300, []float64{10, 50, 99})
	require.False(t, ok)
}

func TestOptimize_TieBreakIgnoresOrder(t *testing.T) {
	// 100 and 100+1e-13 tie within Tolerance.
	rules := DefaultRules
	domain := []float64{5000, 100 + 1e-13, 100, 3000}
	optimum, ok := rules.Optimize(0, domain)
	require.True(t, ok)
	require.Equal(t, 100.0, optimum.Bid)

	reversed := []float64{3000, 100, 100 + 1e-13, 5000}
	optimum, ok = rules.Optimize(0, reversed)
	require.True(t, ok)
	require.Equal(t, 100.0, optimum.Bid)
}

func TestOptimize_SingleCandidate(t *testing.T) {
	rules := DefaultRules
	optimum, ok := rules.Optimize(4900, []float64{101})
	require.True(t, ok)
	require.Equal(t, Optimum{Bid: 101, Others: 4900, Total: 5001, Stars: 2, Prize: 10, Efficiency: 10.0 / 5001}, optimum)
}

func TestOptimize_Idempotent(t *testing.T) {
	rules := DefaultRules
	domain := rules.Domain(4321, DefaultDomainOptions)
	a, okA := rules.Optimize(4321, domain)
	b, okB := rules.Optimize(4321, domain)
	require.Equal(t, okA, okB)
	require.Equal(t, a, b)
}

func TestDomain(t *testing.T) {
	rules := DefaultRules
	tests := []struct {
		name     string
		others   float64
		opts     DomainOptions
		expected []float64
	}{
		{
			name:     "single sample with boundaries",
			others:   4900,
			opts:     DomainOptions{Samples: 1, Upper: 3000, Step: 1},
			expected: []float64{100, 101, 2600, 2601},
		},
		{
			name:     "even samples",
			others:   0,
			opts:     DomainOptions{Samples: 3, Upper: 300, Step: 1},
			expected: []float64{100, 200, 300},
		},
		{
			name:     "capped by max total pool",
			others:   21800,
			opts:     DomainOptions{Samples: 2, Upper: 10000, Step: 1},
			expected: []float64{100, 200},
		},
		{
			name:     "others fill the pool",
			others:   22000,
			opts:     DefaultDomainOptions,
			expected: []float64{100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, rules.Domain(tt.others, tt.opts))
		})
	}
}

func TestDomain_SortedUnique(t *testing.T) {
	rules := DefaultRules
	domain := rules.Domain(2500, DefaultDomainOptions)
	require.True(t, slices.IsSorted(domain))
	require.Equal(t, len(domain), len(slices.Compact(slices.Clone(domain))))
	for _, boundary := range rules.Tiers.Boundaries() {
		bid := boundary - 2500
		if bid >= rules.MinimumBid && bid <= 10000 {
			require.Contains(t, domain, bid)
			require.Contains(t, domain, bid+1)
		}
	}
}

func TestEvaluate(t *testing.T) {
	rules := DefaultRules
	points := rules.Evaluate(4900, []float64{50, 100, 101})
	require.Equal(t, []Point{
		{Bid: 50, Others: 4900, Total: 4950},
		{Bid: 100, Others: 4900, Total: 5000, Stars: 1, Prize: 5, Efficiency: 0.001},
		{Bid: 101, Others: 4900, Total: 5001, Stars: 2, Prize: 10, Efficiency: 10.0 / 5001},
	}, points)
}
