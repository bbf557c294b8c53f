package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/KaramelBytes/bikedash-cli/internal/dataset"
)

// RFMRow summarizes one distinct date.
//
// The source data carries a single aggregate count per day, so Frequency and
// Monetary are the same summed count. This is a simplification, not a true
// three-dimensional RFM model.
type RFMRow struct {
	Date      time.Time
	Recency   int // whole days before the latest date in the frame
	Frequency float64
	Monetary  float64
}

// RFMSummary is the per-date table plus the Pearson correlation between
// recency and the count column (NaN when undefined).
type RFMSummary struct {
	Rows        []RFMRow
	Correlation float64
}

// Len returns the number of dates.
func (s RFMSummary) Len() int { return len(s.Rows) }

// ComputeRFM builds the recency/count table over the distinct dates of f, ordered by date.
func ComputeRFM(f Frame) (RFMSummary, error) {
	out := RFMSummary{Correlation: math.NaN()}
	if f.Len() == 0 {
		return out, nil
	}
	counts, err := column(f, dataset.ColCount)
	if err != nil {
		return out, err
	}
	byDate := map[time.Time]float64{}
	var dates []time.Time
	var latest time.Time
	for i, c := range counts {
		d := dayOf(f.Date(i))
		if _, ok := byDate[d]; !ok {
			dates = append(dates, d)
		}
		byDate[d] += c
		if d.After(latest) {
			latest = d
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	rec := make([]float64, len(dates))
	cnt := make([]float64, len(dates))
	out.Rows = make([]RFMRow, len(dates))
	for i, d := range dates {
		days := int(math.Round(latest.Sub(d).Hours() / 24))
		out.Rows[i] = RFMRow{Date: d, Recency: days, Frequency: byDate[d], Monetary: byDate[d]}
		rec[i] = float64(days)
		cnt[i] = byDate[d]
	}
	out.Correlation = pearson(rec, cnt)
	return out, nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
