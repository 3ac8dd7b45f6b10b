package report

import (
	"context"
	"fmt"
	"math"

	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"

	"github.com/bloxapp/starbid/pkg/rewards"
)

type SurfaceOptions struct {
	OthersSamples int
	BidSamples    int
	// BidUpper is the largest bid of the log-spaced bid axis.
	BidUpper float64
	Workers  int
	Progress bool
}

var DefaultSurfaceOptions = SurfaceOptions{
	OthersSamples: 50,
	BidSamples:    50,
	BidUpper:      5000,
	Workers:       4,
}

// SurfaceGrid holds the efficiency of every (bid, others) pair, indexed
// [bid][others].
type SurfaceGrid struct {
	Others     []float64
	Bids       []float64
	Efficiency [][]float64

	// MinPositive and MaxPositive bound the positive efficiencies, or are
	// both zero if there are none.
	MinPositive float64
	MaxPositive float64
}

type SurfaceCell struct {
	Others     float64 `csv:"others"`
	Bid        float64 `csv:"bid"`
	Efficiency float64 `csv:"efficiency"`
}

// Cells flattens the grid, bid-major.
func (g *SurfaceGrid) Cells() []SurfaceCell {
	cells := make([]SurfaceCell, 0, len(g.Bids)*len(g.Others))
	for i, bid := range g.Bids {
		for j, o := range g.Others {
			cells = append(cells, SurfaceCell{Others: o, Bid: bid, Efficiency: g.Efficiency[i][j]})
		}
	}
	return cells
}

// SurfaceBids returns integer bids log-spaced over [MinimumBid, upper],
// including both ends.
func SurfaceBids(rules *rewards.Rules, samples int, upper float64) []float64 {
	lower := math.Max(rules.MinimumBid, 1)
	if upper < lower {
		return []float64{rules.MinimumBid}
	}
	bids := []float64{rules.MinimumBid, upper}
	if samples > 1 {
		for _, bid := range floats.LogSpan(make([]float64, samples), lower, upper) {
			bids = append(bids, math.Trunc(bid))
		}
	}
	bids = slices.DeleteFunc(bids, func(bid float64) bool { return bid < rules.MinimumBid })
	slices.Sort(bids)
	return slices.Compact(bids)
}

// Surface computes the efficiency surface over evenly spaced others'
// contributions and log-spaced bids. Rows are computed concurrently.
func Surface(
	ctx context.Context,
	logger *zap.Logger,
	rules *rewards.Rules,
	opts SurfaceOptions,
) (*SurfaceGrid, error) {
	if opts.OthersSamples < 1 || opts.BidSamples < 1 {
		return nil, fmt.Errorf("surface needs at least one sample per axis")
	}
	grid := &SurfaceGrid{
		Others: floats.Span(make([]float64, max(opts.OthersSamples, 2)), 0, rules.MaxOthers()),
		Bids:   SurfaceBids(rules, opts.BidSamples, opts.BidUpper),
	}
	if opts.OthersSamples == 1 {
		grid.Others = grid.Others[:1]
	}
	grid.Efficiency = make([][]float64, len(grid.Bids))
	logger.Debug("Computing efficiency surface",
		zap.Int("bids", len(grid.Bids)),
		zap.Int("others", len(grid.Others)),
	)

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.New(len(grid.Bids))
		bar.Describe("Computing surface")
	} else {
		bar = progressbar.DefaultSilent(int64(len(grid.Bids)))
	}
	defer bar.Clear()

	tasks := pool.New().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(max(opts.Workers, 1))
	for i, bid := range grid.Bids {
		i, bid := i, bid
		tasks.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := make([]float64, len(grid.Others))
			for j, o := range grid.Others {
				row[j] = rules.Efficiency(bid, o)
			}
			grid.Efficiency[i] = row
			return bar.Add(1)
		})
	}
	if err := tasks.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute surface: %w", err)
	}

	for _, row := range grid.Efficiency {
		for _, eff := range row {
			if eff <= 0 {
				continue
			}
			if grid.MinPositive == 0 || eff < grid.MinPositive {
				grid.MinPositive = eff
			}
			if eff > grid.MaxPositive {
				grid.MaxPositive = eff
			}
		}
	}
	logger.Debug("Computed efficiency surface",
		zap.Float64("min_efficiency", grid.MinPositive),
		zap.Float64("max_efficiency", grid.MaxPositive),
	)
	return grid, nil
}
