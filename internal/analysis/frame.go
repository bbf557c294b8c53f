package analysis

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownColumn is returned when an operation names a column the frame does not carry.
var ErrUnknownColumn = errors.New("unknown column")

// Frame is read-only indexed access to a table of rows.
// dataset.DailyTable and dataset.HourlyTable implement it.
type Frame interface {
	Len() int
	Value(i int, col string) (float64, bool)
	Date(i int) time.Time
}

// column copies one column out of a frame, in row order.
func column(f Frame, col string) ([]float64, error) {
	out := make([]float64, f.Len())
	for i := range out {
		v, ok := f.Value(i, col)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		out[i] = v
	}
	return out, nil
}
