package rewards

import (
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
)

// Tolerance is the relative difference under which two efficiencies tie.
const Tolerance = 1e-9

// Point is a single evaluated bid.
type Point struct {
	Bid        float64 `csv:"bid"         json:"bid"`
	Others     float64 `csv:"others"      json:"others"`
	Total      float64 `csv:"total_pool"  json:"total_pool"`
	Stars      int     `csv:"stars"       json:"stars"`
	Prize      float64 `csv:"prize"       json:"prize"`
	Efficiency float64 `csv:"efficiency"  json:"efficiency"`
}

// Optimum is the cheapest bid reaching the highest efficiency.
type Optimum Point

// Evaluate computes a Point for every bid of the domain, in domain order.
func (r *Rules) Evaluate(others float64, domain []float64) []Point {
	points := make([]Point, len(domain))
	for i, bid := range domain {
		total := bid + others
		points[i] = Point{
			Bid:        bid,
			Others:     others,
			Total:      total,
			Efficiency: r.Efficiency(bid, others),
		}
		if points[i].Efficiency > 0 {
			points[i].Stars = r.TierFor(total)
			points[i].Prize = r.Prize(total)
		}
	}
	return points
}

// Optimize finds the bid of the domain with the highest efficiency for the
// given others' contribution. Among bids whose efficiency ties with the
// maximum, the smallest bid wins regardless of domain order. It reports false
// when no bid has a positive efficiency.
func (r *Rules) Optimize(others float64, domain []float64) (Optimum, bool) {
	points := r.Evaluate(others, domain)

	best := 0.0
	for _, p := range points {
		if p.Efficiency > best {
			best = p.Efficiency
		}
	}
	if best <= 0 {
		return Optimum{}, false
	}

	optimum := Optimum{Bid: math.Inf(1)}
	for _, p := range points {
		if tied(p.Efficiency, best) && p.Bid < optimum.Bid {
			optimum = Optimum(p)
		}
	}
	return optimum, true
}

func tied(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance*math.Max(math.Abs(a), math.Abs(b))
}

// DomainOptions shape the candidate bids scanned by Optimize.
type DomainOptions struct {
	// Samples is the number of evenly spaced bids.
	Samples int
	// Upper caps the largest bid scanned.
	Upper float64
	// Step is added to every boundary crossing bid to land in the next tier.
	Step float64
}

var DefaultDomainOptions = DomainOptions{
	Samples: 300,
	Upper:   10000,
	Step:    1,
}

// Domain returns the candidate bids for the given others' contribution: an
// even scan over [MinimumBid, upper] plus the bids that land exactly on, and
// just past, every tier boundary. The result is sorted and unique.
func (r *Rules) Domain(others float64, opts DomainOptions) []float64 {
	upper := math.Min(opts.Upper, r.MaxTotalPool-others)
	if upper < r.MinimumBid {
		upper = r.MinimumBid
	}

	var bids []float64
	switch {
	case opts.Samples > 1 && upper > r.MinimumBid:
		bids = floats.Span(make([]float64, opts.Samples), r.MinimumBid, upper)
	default:
		bids = []float64{r.MinimumBid}
	}

	for _, boundary := range r.Tiers.Boundaries() {
		at := boundary - others
		for _, bid := range []float64{at, at + opts.Step} {
			if bid >= r.MinimumBid && bid <= upper {
				bids = append(bids, bid)
			}
		}
	}

	slices.Sort(bids)
	return slices.Compact(bids)
}
