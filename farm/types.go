/*
Package farm holds the land-side domain types: plots and crop cycles.

PURPOSE:
  A farm is divided into named, measured plots ("talhões"). Production on a
  plot happens in bounded crop cycles ("safras"), and the cycle window is
  what cost and revenue reports attribute entries to.

KEY CONCEPTS:
  - Plot: a land parcel with an area in hectares. Area drives the
    proportional allocation of indirect costs (rateio).
  - CropCycle: one production run on one plot, with a start/end window.

SEE ALSO:
  - finance: allocation and cost reports consuming plot areas
  - calendar: the Period type used as the cycle window
*/
package farm

import (
	"github.com/shopspring/decimal"

	"github.com/lavoura/farm-engine/calendar"
)

// =============================================================================
// PLOT - A named, measured land parcel
// =============================================================================

type PlotID string

type Plot struct {
	ID     PlotID
	Name   string
	AreaHa decimal.Decimal // hectares; zero means "not measured yet"
	Crop   string          // current crop, free text
	Notes  string
}

// TotalArea sums the measured area of the given plots.
func TotalArea(plots []Plot) decimal.Decimal {
	total := decimal.Zero
	for _, p := range plots {
		total = total.Add(p.AreaHa)
	}
	return total
}

// =============================================================================
// CROP CYCLE - A bounded production run on a plot
// =============================================================================

type CycleStatus string

const (
	CycleActive   CycleStatus = "active"
	CycleFinished CycleStatus = "finished"
)

type CropCycle struct {
	ID     string
	PlotID PlotID
	Name   string // e.g. "Soja 2024/2025"
	Window calendar.Period
	Status CycleStatus
	Notes  string
}
