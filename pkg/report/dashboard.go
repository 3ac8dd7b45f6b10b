package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/bloxapp/starbid/pkg/rewards"
)

// Dashboard serves the efficiency curve for a chosen others' contribution.
// It keeps no state between requests: the form carries the last valid value
// so malformed input can fall back to it.
type Dashboard struct {
	logger  *zap.Logger
	rules   rewards.Rules
	domain  rewards.DomainOptions
	surface SurfaceOptions
	limiter *rate.Limiter
	mux     *http.ServeMux
}

// NewDashboard builds the dashboard handler. A non-positive rendersPerSecond
// disables throttling.
func NewDashboard(
	logger *zap.Logger,
	rules rewards.Rules,
	domain rewards.DomainOptions,
	rendersPerSecond float64,
) *Dashboard {
	limit, burst := rate.Inf, 1
	if rendersPerSecond > 0 {
		limit, burst = rate.Limit(rendersPerSecond), max(int(math.Ceil(rendersPerSecond)), 1)
	}
	d := &Dashboard{
		logger:  logger,
		rules:   rules,
		domain:  domain,
		surface: DefaultSurfaceOptions,
		limiter: rate.NewLimiter(limit, burst),
		mux:     http.NewServeMux(),
	}
	d.mux.HandleFunc("/", d.handleCurve)
	d.mux.HandleFunc("/surface", d.handleSurface)
	d.mux.HandleFunc("/optimum", d.handleOptimum)
	return d
}

func (d *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !d.limiter.Allow() {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}
	d.mux.ServeHTTP(w, r)
}

// ParseOthers reads the others' contribution from user input, falling back to
// the last valid value and then to DefaultOthers. The result is clamped to
// [0, rules.MaxOthers()].
func ParseOthers(rules *rewards.Rules, input, last string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) {
		err = fmt.Errorf("invalid others' contribution %q", input)
		v = rewards.DefaultOthers
		if l, lerr := strconv.ParseFloat(strings.TrimSpace(last), 64); lerr == nil && !math.IsNaN(l) {
			v = l
		}
	}
	return math.Min(math.Max(v, 0), rules.MaxOthers()), err
}

func (d *Dashboard) others(r *http.Request) float64 {
	q := r.URL.Query()
	if !q.Has("others") {
		others, _ := ParseOthers(&d.rules, q.Get("last"), "")
		return others
	}
	others, err := ParseOthers(&d.rules, q.Get("others"), q.Get("last"))
	if err != nil {
		d.logger.Warn("Falling back to last valid value", zap.Error(err), zap.Float64("others", others))
	}
	return others
}

type optimumResponse struct {
	Others  float64          `json:"others"`
	Optimum *rewards.Optimum `json:"optimum"`
}

func (d *Dashboard) handleOptimum(w http.ResponseWriter, r *http.Request) {
	others := d.others(r)
	resp := optimumResponse{Others: others}
	if optimum, ok := d.rules.Optimize(others, d.rules.Domain(others, d.domain)); ok {
		resp.Optimum = &optimum
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		d.logger.Error("failed to encode optimum", zap.Error(err))
	}
}

func (d *Dashboard) handleCurve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	others := d.others(r)
	domain := d.rules.Domain(others, d.domain)
	points := d.rules.Evaluate(others, domain)
	optimum, ok := d.rules.Optimize(others, domain)

	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Value: []interface{}{p.Bid, p.Efficiency}}
	}
	subtitle := "No positive efficiency found."
	top := 0.001
	if ok {
		subtitle = fmt.Sprintf(
			"Optimal bid %.0f, total pool %.0f (%d stars), efficiency %.5f",
			optimum.Bid, optimum.Total, optimum.Stars, optimum.Efficiency,
		)
		top = max(top, optimum.Efficiency*1.2)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Bid Efficiency", Width: "1000px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Efficiency vs. Your Bid (others = %.0f)", others), Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: fmt.Sprintf("Your Bid (min %.0f)", d.rules.MinimumBid), NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Efficiency", Min: 0, Max: top}),
	)
	line.AddSeries("efficiency", data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	if ok {
		scatter := charts.NewScatter()
		scatter.AddSeries("optimum", []opts.ScatterData{{
			Value:      []interface{}{optimum.Bid, optimum.Efficiency},
			SymbolSize: 14,
		}})
		line.Overlap(scatter)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		d.logger.Error("failed to render efficiency chart", zap.Error(err))
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	d.writePage(w, buf.String(), others)
}

func (d *Dashboard) handleSurface(w http.ResponseWriter, r *http.Request) {
	grid, err := Surface(r.Context(), d.logger, &d.rules, d.surface)
	if err != nil {
		d.logger.Error("failed to compute surface", zap.Error(err))
		http.Error(w, "failed to compute surface", http.StatusInternalServerError)
		return
	}
	data := make([]opts.Chart3DData, 0, len(grid.Bids)*len(grid.Others))
	for _, c := range grid.Cells() {
		data = append(data, opts.Chart3DData{Value: []interface{}{c.Others, c.Bid, c.Efficiency}})
	}

	surface := charts.NewSurface3D()
	surface.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Efficiency Surface", Width: "1000px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: "Efficiency", Subtitle: fmt.Sprintf("total pool <= %.0f", d.rules.MaxTotalPool)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "Others"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Your Bid"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Efficiency"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(grid.MinPositive),
			Max:        float32(grid.MaxPositive),
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#fde725"}},
		}),
	)
	surface.AddSeries("efficiency", data)

	var buf bytes.Buffer
	if err := surface.Render(&buf); err != nil {
		d.logger.Error("failed to render surface", zap.Error(err))
		http.Error(w, "failed to render surface", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// writePage puts the others' form on top of a rendered chart page.
func (d *Dashboard) writePage(w http.ResponseWriter, page string, others float64) {
	value := html.EscapeString(strconv.FormatFloat(others, 'f', -1, 64))
	form := fmt.Sprintf(`<form method="get" action="/" style="margin:16px">
<label>Others' contribution (0 to %.0f): <input type="number" name="others" step="100" value="%s"></label>
<input type="hidden" name="last" value="%s">
<input type="submit" value="Update"> <a href="/surface">surface</a>
</form>`, d.rules.MaxOthers(), value, value)
	if strings.Contains(page, "<body>") {
		page = strings.Replace(page, "<body>", "<body>\n"+form, 1)
	} else {
		page = form + page
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}
