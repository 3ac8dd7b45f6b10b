package rewards

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// Rules are the parameters of a contest. They are read-only once parsed:
// every method is a pure function of its receiver and arguments.
type Rules struct {
	MinimumBid     float64   `yaml:"minimum_bid"     json:"minimum_bid"`
	MaxTotalPool   float64   `yaml:"max_total_pool"  json:"max_total_pool"`
	StarMultiplier float64   `yaml:"star_multiplier" json:"star_multiplier"`
	BeyondCap      BeyondCap `yaml:"beyond_cap"      json:"beyond_cap"`
	Tiers          Tiers     `yaml:"tiers"           json:"tiers"`
}

// ParseRules parses the given YAML document into Rules.
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	if rules.BeyondCap == "" {
		rules.BeyondCap = BeyondCapZero
	}
	if err := rules.validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *Rules) validate() error {
	if r.MinimumBid < 0 {
		return errors.New("minimum bid must not be negative")
	}
	if r.MaxTotalPool <= 0 {
		return errors.New("max total pool must be positive")
	}
	if r.StarMultiplier <= 0 {
		return errors.New("star multiplier must be positive")
	}
	if !r.BeyondCap.Valid() {
		return fmt.Errorf("invalid beyond_cap policy: %q", r.BeyondCap)
	}
	if err := r.Tiers.validate(); err != nil {
		return err
	}
	if last := r.Tiers[len(r.Tiers)-1].MaxPool; last < r.MaxTotalPool {
		return fmt.Errorf("tiers do not cover max total pool: %g < %g", last, r.MaxTotalPool)
	}
	return nil
}

// WithMinimumBid returns a copy of the rules with another minimum bid.
func (r Rules) WithMinimumBid(bid float64) Rules {
	r.Tiers = slices.Clone(r.Tiers)
	r.MinimumBid = bid
	return r
}

// WithBeyondCap returns a copy of the rules with another beyond-cap policy.
func (r Rules) WithBeyondCap(policy BeyondCap) Rules {
	r.Tiers = slices.Clone(r.Tiers)
	r.BeyondCap = policy
	return r
}

// TierFor returns the star count of the given total pool.
func (r *Rules) TierFor(pool float64) int {
	return r.Tiers.Lookup(pool, r.BeyondCap)
}

// Prize returns the prize paid for the given total pool.
func (r *Rules) Prize(pool float64) float64 {
	return float64(r.TierFor(pool)) * r.StarMultiplier
}

// Efficiency returns the prize per point of pool for a bid on top of the
// others' contribution, or 0 when the bid doesn't qualify.
func (r *Rules) Efficiency(bid, others float64) float64 {
	if bid < r.MinimumBid || math.IsNaN(bid) {
		return 0
	}
	total := bid + others
	if total <= 0 || total > r.MaxTotalPool || math.IsNaN(total) {
		return 0
	}
	prize := r.Prize(total)
	if prize == 0 {
		return 0
	}
	return prize / total
}

// MaxOthers is the largest others' contribution that still leaves room for
// the minimum bid.
func (r *Rules) MaxOthers() float64 {
	return math.Max(0, r.MaxTotalPool-r.MinimumBid)
}
