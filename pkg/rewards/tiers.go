package rewards

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// FloorTier is the tier of an empty (or negative) pool.
const FloorTier = 0

const (
	// BeyondCapZero drops the tier to zero once the pool exceeds the last
	// boundary. This is the rule prizes are paid by.
	BeyondCapZero BeyondCap = "zero"

	// BeyondCapTopTier keeps the last tier for pools above the last boundary.
	// It only serves the tier step chart and never affects efficiency, which
	// is cut off at MaxTotalPool anyway.
	BeyondCapTopTier BeyondCap = "top_tier"
)

var AvailableBeyondCap = []BeyondCap{
	BeyondCapZero,
	BeyondCapTopTier,
}

type BeyondCap string

func (b BeyondCap) String() string {
	return string(b)
}

func (b BeyondCap) Valid() bool {
	for _, v := range AvailableBeyondCap {
		if v == b {
			return true
		}
	}
	return false
}

type Tier struct {
	MaxPool float64 `yaml:"max_pool" json:"max_pool"`
	Stars   int     `yaml:"stars"    json:"stars"`
}

type Tiers []Tier

func (t Tiers) Len() int           { return len(t) }
func (t Tiers) Less(i, j int) bool { return t[i].MaxPool < t[j].MaxPool }
func (t Tiers) Swap(i, j int)      { t[i], t[j] = t[j], t[i] }

// Lookup returns the stars for the given total pool. Boundaries are
// inclusive upper limits.
func (t Tiers) Lookup(pool float64, beyond BeyondCap) int {
	if math.IsNaN(pool) || pool <= 0 || len(t) == 0 {
		return FloorTier
	}
	for _, tier := range t {
		if pool <= tier.MaxPool {
			return tier.Stars
		}
	}
	if beyond == BeyondCapTopTier {
		return t[len(t)-1].Stars
	}
	return FloorTier
}

// Boundaries returns the inclusive upper limits of every tier.
func (t Tiers) Boundaries() []float64 {
	bounds := make([]float64, len(t))
	for i, tier := range t {
		bounds[i] = tier.MaxPool
	}
	return bounds
}

func (t Tiers) validate() error {
	if len(t) == 0 {
		return errors.New("missing tiers")
	}
	if !sort.IsSorted(t) {
		return errors.New("tiers are not sorted by max pool")
	}
	if t[0].MaxPool <= 0 {
		return errors.New("max pool must be positive in tiers")
	}
	for i, tier := range t {
		if tier.Stars < 0 {
			return fmt.Errorf("negative stars in tier: %g", tier.MaxPool)
		}
		if i == 0 {
			continue
		}
		if t[i-1].MaxPool == tier.MaxPool {
			return fmt.Errorf("duplicate tier: %g", tier.MaxPool)
		}
		if t[i-1].Stars > tier.Stars {
			return fmt.Errorf("stars decrease at tier: %g", tier.MaxPool)
		}
	}
	return nil
}
