package report

import (
	"fmt"

	"github.com/bloxapp/starbid/pkg/rewards"
)

// InvalidBid marks table rows whose bid is under the minimum bid.
const InvalidBid = "Invalid Bid"

var (
	DefaultTableOthers = []float64{0, 1000, 4900, 5000, 7400, 15000, 20000, 21900}
	DefaultTableBids   = []float64{100, 500, 1000, 2000, 3000, 5000}
)

type TableRow struct {
	Others     float64 `csv:"others"`
	Bid        float64 `csv:"bid"`
	Total      float64 `csv:"total_pool"`
	Prize      float64 `csv:"prize"`
	Efficiency string  `csv:"efficiency"`
}

// Table evaluates every bid against every others' contribution, grouped by
// others' contribution.
func Table(rules *rewards.Rules, others, bids []float64) []TableRow {
	rows := make([]TableRow, 0, len(others)*len(bids))
	for _, o := range others {
		for _, bid := range bids {
			row := TableRow{
				Others:     o,
				Bid:        bid,
				Total:      bid + o,
				Efficiency: fmt.Sprintf("%.5f", 0.0),
			}
			if bid < rules.MinimumBid {
				row.Efficiency = InvalidBid
			} else if eff := rules.Efficiency(bid, o); eff > 0 {
				row.Prize = rules.Prize(row.Total)
				row.Efficiency = fmt.Sprintf("%.5f", eff)
			}
			rows = append(rows, row)
		}
	}
	return rows
}
