package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bloxapp/starbid/pkg/report"
	"github.com/bloxapp/starbid/pkg/rewards"
)

type TableCmd struct {
	Others []float64 `help:"Others' contributions to tabulate."`
	Bids   []float64 `help:"Bids to tabulate."`
	Out    string    `help:"Path to save the table to. Defaults to stdout."`
}

func (c *TableCmd) Run(logger *zap.Logger, rules *rewards.Rules) error {
	others, bids := c.Others, c.Bids
	if len(others) == 0 {
		others = report.DefaultTableOthers
	}
	if len(bids) == 0 {
		bids = report.DefaultTableBids
	}
	rows := report.Table(rules, others, bids)
	if err := report.ExportCSVFile(rows, c.Out); err != nil {
		return fmt.Errorf("failed to export table: %w", err)
	}
	logger.Debug("Exported efficiency table", zap.Int("rows", len(rows)))
	return nil
}

type SurfaceCmd struct {
	Out           string  `help:"Path to save the surface to. Defaults to stdout."`
	OthersSamples int     `default:"50"   help:"Number of others' contributions."`
	BidSamples    int     `default:"50"   help:"Number of log-spaced bids."`
	BidUpper      float64 `default:"5000" help:"Largest bid."`
	Workers       int     `default:"4"    help:"Number of rows computed concurrently."`
}

func (c *SurfaceCmd) Run(logger *zap.Logger, rules *rewards.Rules) error {
	grid, err := report.Surface(context.Background(), logger, rules, report.SurfaceOptions{
		OthersSamples: c.OthersSamples,
		BidSamples:    c.BidSamples,
		BidUpper:      c.BidUpper,
		Workers:       c.Workers,
		Progress:      c.Out != "",
	})
	if err != nil {
		return err
	}
	if err := report.ExportCSVFile(grid.Cells(), c.Out); err != nil {
		return fmt.Errorf("failed to export surface: %w", err)
	}
	if c.Out != "" {
		logger.Info("Exported efficiency surface",
			zap.String("file", c.Out),
			zap.Int("bids", len(grid.Bids)),
			zap.Int("others", len(grid.Others)),
			zap.Float64("min_efficiency", grid.MinPositive),
			zap.Float64("max_efficiency", grid.MaxPositive),
		)
	}
	return nil
}

type ChartCmd struct {
	Dir     string  `default:"./charts" help:"Path to save the charts to."`
	Others  float64 `default:"1300"     help:"Sum of the other participants' bids."`
	Samples int     `default:"300"      help:"Number of evenly spaced bids."`
	Upper   float64 `default:"10000"    help:"Largest bid."`
	Clamp   bool    `help:"Keep the top tier beyond the last boundary in the tier chart."`
}

func (c *ChartCmd) Run(logger *zap.Logger, rules *rewards.Rules) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create %q: %w", c.Dir, err)
	}

	stepRules := *rules
	if c.Clamp {
		stepRules = rules.WithBeyondCap(rewards.BeyondCapTopTier)
	}
	tiersFile := filepath.Join(c.Dir, "tiers.png")
	if err := report.StepChart(&stepRules, tiersFile); err != nil {
		return fmt.Errorf("failed to draw tier chart: %w", err)
	}
	logger.Info("Saved tier chart", zap.String("file", tiersFile), zap.Stringer("beyond_cap", stepRules.BeyondCap))

	efficiencyFile := filepath.Join(c.Dir, "efficiency.png")
	opts := rewards.DomainOptions{Samples: c.Samples, Upper: c.Upper, Step: rewards.DefaultDomainOptions.Step}
	optimum, ok, err := report.EfficiencyChart(rules, c.Others, opts, efficiencyFile)
	if err != nil {
		return fmt.Errorf("failed to draw efficiency chart: %w", err)
	}
	fields := []zap.Field{zap.String("file", efficiencyFile), zap.Float64("others", c.Others)}
	if ok {
		fields = append(fields, zap.Float64("optimal_bid", optimum.Bid), zap.Float64("efficiency", optimum.Efficiency))
	}
	logger.Info("Saved efficiency chart", fields...)
	return nil
}
