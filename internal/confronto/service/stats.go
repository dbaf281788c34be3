package service

import (
	"math"

	"confronto-service/internal/confronto/model"
)

const meanEps = 1e-9

// ComputeStats fills the row-level price aggregates and each contractor's
// delta-vs-mean from the unit prices actually present on the row. A row with
// no priced offers keeps every aggregate nil, never zero.
func ComputeStats(row *model.ConfrontoRow) {
	var prices []float64
	for _, pf := range row.Offerte {
		if pf.UnitPrice != nil {
			prices = append(prices, *pf.UnitPrice)
		}
	}

	if len(prices) == 0 {
		row.MeanPrice, row.MinPrice, row.MaxPrice, row.StdDevPrice = nil, nil, nil, nil
		for _, pf := range row.Offerte {
			pf.DeltaVsMean = nil
		}
		return
	}

	sum, mn, mx := 0.0, prices[0], prices[0]
	for _, p := range prices {
		sum += p
		if p < mn {
			mn = p
		}
		if p > mx {
			mx = p
		}
	}
	mean := sum / float64(len(prices))

	// population std-dev: divisor is count, exactly 0 for a single price
	varSum := 0.0
	for _, p := range prices {
		d := p - mean
		varSum += d * d
	}
	sd := math.Sqrt(varSum / float64(len(prices)))

	row.MeanPrice = &mean
	row.MinPrice = &mn
	row.MaxPrice = &mx
	row.StdDevPrice = &sd

	for _, pf := range row.Offerte {
		pf.DeltaVsMean = nil
		if pf.UnitPrice != nil && math.Abs(mean) > meanEps {
			d := (*pf.UnitPrice - mean) / mean * 100
			pf.DeltaVsMean = &d
		}
	}
}
