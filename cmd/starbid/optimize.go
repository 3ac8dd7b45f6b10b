package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bloxapp/starbid/pkg/report"
	"github.com/bloxapp/starbid/pkg/rewards"
)

type TiersCmd struct {
	Pools []float64 `arg:"" optional:"" help:"Total pool sizes. Defaults to every tier boundary and the point just past it."`
}

func (c *TiersCmd) Run(logger *zap.Logger, rules *rewards.Rules) error {
	pools := c.Pools
	if len(pools) == 0 {
		pools = append(pools, 0)
		for _, b := range rules.Tiers.Boundaries() {
			pools = append(pools, b, b+0.01)
		}
	}
	for _, pool := range pools {
		logger.Info("Tier",
			zap.Float64("total_pool", pool),
			zap.Int("stars", rules.TierFor(pool)),
			zap.Float64("prize", rules.Prize(pool)),
		)
	}
	return nil
}

type EfficiencyCmd struct {
	Bid    float64 `required:"" help:"Your bid."`
	Others float64 `default:"1300" help:"Sum of the other participants' bids."`
}

func (c *EfficiencyCmd) Run(logger *zap.Logger, rules *rewards.Rules) error {
	total := c.Bid + c.Others
	eff := rules.Efficiency(c.Bid, c.Others)
	fields := []zap.Field{
		zap.Float64("bid", c.Bid),
		zap.Float64("others", c.Others),
		zap.Float64("total_pool", total),
		zap.Float64("efficiency", eff),
	}
	if eff == 0 {
		logger.Warn("Bid earns nothing", append(fields, zap.String("reason", zeroReason(rules, c.Bid, total)))...)
		return nil
	}
	logger.Info("Efficiency", append(fields,
		zap.Int("stars", rules.TierFor(total)),
		zap.Float64("prize", rules.Prize(total)),
	)...)
	return nil
}

func zeroReason(rules *rewards.Rules, bid, total float64) string {
	switch {
	case bid < rules.MinimumBid:
		return fmt.Sprintf("bid is under the minimum bid of %.0f", rules.MinimumBid)
	case total <= 0:
		return "total pool is empty"
	case total > rules.MaxTotalPool:
		return fmt.Sprintf("total pool exceeds %.0f", rules.MaxTotalPool)
	default:
		return "no prize for this total pool"
	}
}

type OptimizeCmd struct {
	Others  float64 `default:"1300"  help:"Sum of the other participants' bids."`
	Samples int     `default:"300"   help:"Number of evenly spaced bids to scan."`
	Upper   float64 `default:"10000" help:"Largest bid to scan."`
	Step    float64 `default:"1"     help:"Increment past each tier boundary."`
	Out     string  `                help:"Exports every evaluated bid to this TSV file."`
}

func (c *OptimizeCmd) Run(logger *zap.Logger, rules *rewards.Rules) error {
	opts := rewards.DomainOptions{Samples: c.Samples, Upper: c.Upper, Step: c.Step}
	domain := rules.Domain(c.Others, opts)

	if c.Out != "" {
		if err := report.ExportCSVFile(rules.Evaluate(c.Others, domain), c.Out); err != nil {
			return fmt.Errorf("failed to export evaluated bids: %w", err)
		}
		logger.Info("Exported evaluated bids", zap.String("file", c.Out), zap.Int("bids", len(domain)))
	}

	optimum, ok := rules.Optimize(c.Others, domain)
	if !ok {
		logger.Warn("No bid with positive efficiency",
			zap.Float64("others", c.Others),
			zap.Float64("minimum_bid", rules.MinimumBid),
			zap.Float64("max_total_pool", rules.MaxTotalPool),
		)
		return nil
	}
	logger.Info("Optimal bid",
		zap.Float64("others", c.Others),
		zap.Float64("bid", optimum.Bid),
		zap.Float64("total_pool", optimum.Total),
		zap.Int("stars", optimum.Stars),
		zap.Float64("prize", optimum.Prize),
		zap.String("efficiency", fmt.Sprintf("%.5f", optimum.Efficiency)),
	)
	return nil
}
