package analysis

import (
	"sort"
	"strconv"
)

// Aggregation names used in GroupSummary.Agg.
const (
	AggSum  = "sum"
	AggMean = "mean"
)

// Labeler turns a categorical key into a display label.
type Labeler func(key float64) string

// NumberLabel renders the key as its shortest decimal form.
func NumberLabel(key float64) string { return strconv.FormatFloat(key, 'f', -1, 64) }

// WorkingDayLabel maps the working-day flag to "Weekend" (0) and "Weekday" (1).
func WorkingDayLabel(key float64) string {
	switch key {
	case 0:
		return "Weekend"
	case 1:
		return "Weekday"
	}
	return NumberLabel(key)
}

// Group is one aggregated key.
type Group struct {
	Key   float64
	Label string
	Value float64
	Count int
}

// GroupSummary is an aggregate per key, ordered by ascending key.
type GroupSummary struct {
	KeyColumn   string
	ValueColumn string
	Agg         string
	Groups      []Group
}

// Len returns the number of groups.
func (s GroupSummary) Len() int { return len(s.Groups) }

// Lookup returns the group for a key.
func (s GroupSummary) Lookup(key float64) (Group, bool) {
	for _, g := range s.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// GroupSum sums value per distinct key.
func GroupSum(f Frame, key, value string, label Labeler) (GroupSummary, error) {
	return groupBy(f, key, value, AggSum, label)
}

// GroupMean averages value per distinct key.
func GroupMean(f Frame, key, value string, label Labeler) (GroupSummary, error) {
	return groupBy(f, key, value, AggMean, label)
}

func groupBy(f Frame, key, value, agg string, label Labeler) (GroupSummary, error) {
	out := GroupSummary{KeyColumn: key, ValueColumn: value, Agg: agg}
	if f.Len() == 0 {
		return out, nil
	}
	keys, err := column(f, key)
	if err != nil {
		return out, err
	}
	vals, err := column(f, value)
	if err != nil {
		return out, err
	}
	if label == nil {
		label = NumberLabel
	}
	type gAcc struct {
		sum float64
		n   int
	}
	groups := map[float64]*gAcc{}
	order := make([]float64, 0)
	// Rows are accumulated in input order so sums are reproducible.
	for i, k := range keys {
		ga := groups[k]
		if ga == nil {
			ga = &gAcc{}
			groups[k] = ga
			order = append(order, k)
		}
		ga.sum += vals[i]
		ga.n++
	}
	sort.Float64s(order)
	out.Groups = make([]Group, 0, len(order))
	for _, k := range order {
		ga := groups[k]
		v := ga.sum
		if agg == AggMean {
			v = ga.sum / float64(ga.n)
		}
		out.Groups = append(out.Groups, Group{Key: k, Label: label(k), Value: v, Count: ga.n})
	}
	return out, nil
}
