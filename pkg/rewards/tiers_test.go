package rewards

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	rules := DefaultRules
	tests := []struct {
		pool     float64
		expected int
	}{
		{-500, 0},
		{0, 0},
		{1, 1},
		{5000, 1},
		{5000.01, 2},
		{7500, 2},
		{7500.01, 3},
		{16000, 3},
		{16000.01, 4},
		{17000, 4},
		{18000, 5},
		{19000, 6},
		{19000.01, 7},
		{22000, 7},
		{22000.01, 0},
		{1e9, 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, rules.TierFor(tt.pool), "pool %g", tt.pool)
	}
}

func TestTierFor_NaN(t *testing.T) {
	rules := DefaultRules
	require.Equal(t, FloorTier, rules.TierFor(math.NaN()))
}

func TestTierFor_Monotonic(t *testing.T) {
	rules := DefaultRules
	prev := rules.TierFor(0.5)
	for pool := 1.0; pool <= rules.MaxTotalPool; pool += 0.5 {
		tier := rules.TierFor(pool)
		require.GreaterOrEqual(t, tier, prev, "pool %g", pool)
		prev = tier
	}
}

func TestTierFor_BoundaryInclusive(t *testing.T) {
	rules := DefaultRules
	for i, tier := range rules.Tiers {
		require.Equal(t, tier.Stars, rules.TierFor(tier.MaxPool))
		next := 0
		if i+1 < len(rules.Tiers) {
			next = rules.Tiers[i+1].Stars
		}
		require.Equal(t, next, rules.TierFor(tier.MaxPool+0.01))
	}
}

func TestTiers_LookupBeyondCap(t *testing.T) {
	require.Equal(t, 0, DefaultTiers.Lookup(23000, BeyondCapZero))
	require.Equal(t, 7, DefaultTiers.Lookup(23000, BeyondCapTopTier))
	require.Equal(t, 0, DefaultTiers.Lookup(0, BeyondCapTopTier))
	require.Equal(t, 0, Tiers{}.Lookup(10, BeyondCapTopTier))
}

func TestTiers_Boundaries(t *testing.T) {
	require.Equal(t,
		[]float64{5000, 7500, 16000, 17000, 18000, 19000, 22000},
		DefaultTiers.Boundaries(),
	)
}

func TestBeyondCap_UnmarshalText(t *testing.T) {
	var b BeyondCap
	require.NoError(t, b.UnmarshalText([]byte("top_tier")))
	require.Equal(t, BeyondCapTopTier, b)
	require.NoError(t, b.UnmarshalText(nil))
	require.Equal(t, BeyondCapZero, b)
	require.ErrorContains(t, b.UnmarshalText([]byte("clamp")), "invalid beyond_cap policy")
}

func TestBeyondCap_MarshalJSON(t *testing.T) {
	data, err := BeyondCapTopTier.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"top_tier"`, string(data))

	var b BeyondCap
	require.NoError(t, b.UnmarshalJSON([]byte(`"zero"`)))
	require.Equal(t, BeyondCapZero, b)
}
