package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/bloxapp/starbid/pkg/rewards"
)

// boundaryNudge is how far past each boundary the step chart samples, so the
// step lands on the next tier.
const boundaryNudge = 0.01

var (
	stepColor    = color.RGBA{R: 30, G: 144, B: 255, A: 255}
	curveColor   = color.RGBA{R: 0, G: 191, B: 255, A: 255}
	optimumColor = color.RGBA{R: 220, G: 20, B: 60, A: 255}
	markerColor  = color.RGBA{R: 128, G: 128, B: 128, A: 180}
)

// StepPoints samples the tier table at zero, at every boundary and just past
// it, and at a point beyond the last boundary.
func StepPoints(rules *rewards.Rules) plotter.XYs {
	bounds := rules.Tiers.Boundaries()
	pts := make(plotter.XYs, 0, 2*len(bounds)+2)
	pts = append(pts, plotter.XY{X: 0, Y: float64(rules.TierFor(0))})
	for _, b := range bounds {
		pts = append(pts,
			plotter.XY{X: b, Y: float64(rules.TierFor(b))},
			plotter.XY{X: b + boundaryNudge, Y: float64(rules.TierFor(b + boundaryNudge))},
		)
	}
	if len(bounds) > 0 {
		last := bounds[len(bounds)-1] + 1000
		pts = append(pts, plotter.XY{X: last, Y: float64(rules.TierFor(last))})
	}
	return pts
}

// StepChart writes a PNG of stars against total pool size.
func StepChart(rules *rewards.Rules, fileName string) error {
	p := plot.New()
	p.Title.Text = "Base Stars vs. Total Pool Size"
	p.X.Label.Text = "Total Pool Size"
	p.Y.Label.Text = "Base Stars"
	p.Add(plotter.NewGrid())

	steps, err := plotter.NewLine(StepPoints(rules))
	if err != nil {
		return fmt.Errorf("failed to create step line: %w", err)
	}
	steps.StepStyle = plotter.PostStep
	steps.Color = stepColor
	steps.Width = vg.Points(2)
	p.Add(steps)
	p.Legend.Add("Base Stars", steps)

	top := 0.0
	for _, tier := range rules.Tiers {
		top = max(top, float64(tier.Stars))
	}
	for _, b := range rules.Tiers.Boundaries() {
		marker, err := plotter.NewLine(plotter.XYs{{X: b, Y: 0}, {X: b, Y: top + 1}})
		if err != nil {
			return fmt.Errorf("failed to create boundary marker: %w", err)
		}
		marker.Color = markerColor
		marker.Width = vg.Points(0.8)
		marker.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(marker)
	}

	p.Y.Min = -0.5
	p.Y.Max = top + 1
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(12*vg.Inch, 7*vg.Inch, fileName); err != nil {
		return fmt.Errorf("save step chart: %w", err)
	}
	return nil
}

// EfficiencyChart writes a PNG of efficiency against bid for the given
// others' contribution, with the optimum marked when there is one.
func EfficiencyChart(
	rules *rewards.Rules,
	others float64,
	opts rewards.DomainOptions,
	fileName string,
) (rewards.Optimum, bool, error) {
	domain := rules.Domain(others, opts)
	points := rules.Evaluate(others, domain)
	optimum, ok := rules.Optimize(others, domain)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Efficiency vs. Your Bid (others = %.0f)", others)
	p.X.Label.Text = fmt.Sprintf("Your Bid (minimum %.0f)", rules.MinimumBid)
	p.Y.Label.Text = "Efficiency (prize / total pool)"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.Bid, Y: pt.Efficiency}
	}
	curve, err := plotter.NewLine(xys)
	if err != nil {
		return optimum, ok, fmt.Errorf("failed to create efficiency line: %w", err)
	}
	curve.Color = curveColor
	curve.Width = vg.Points(2)
	p.Add(curve)
	p.Legend.Add("Efficiency", curve)

	top := 0.001
	if ok {
		marker, err := plotter.NewScatter(plotter.XYs{{X: optimum.Bid, Y: optimum.Efficiency}})
		if err != nil {
			return optimum, ok, fmt.Errorf("failed to create optimum marker: %w", err)
		}
		marker.GlyphStyle.Color = optimumColor
		marker.GlyphStyle.Radius = vg.Points(5)
		marker.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(marker)
		p.Legend.Add(fmt.Sprintf("Optimal bid %.0f (efficiency %.5f)", optimum.Bid, optimum.Efficiency), marker)
		top = max(top, optimum.Efficiency*1.15)
	} else {
		p.Title.Text += ": no positive efficiency"
	}
	p.Y.Min = 0
	p.Y.Max = top
	p.X.Min = 0
	p.Legend.Top = true

	if err := p.Save(14*vg.Inch, 9*vg.Inch, fileName); err != nil {
		return optimum, ok, fmt.Errorf("save efficiency chart: %w", err)
	}
	return optimum, ok, nil
}
