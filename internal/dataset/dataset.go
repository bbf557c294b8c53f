package dataset

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Hour selector bounds.
const (
	MinHour     = 0
	MaxHour     = 23
	DefaultHour = 12
)

// Options controls how the two input tables are read.
type Options struct {
	// Delimiter for CSV. If 0, ',' for .csv and '\t' for .tsv.
	Delimiter rune
	// Sheet selects the XLSX sheet; empty means the first sheet.
	Sheet string
}

// Dataset holds both tables and the selector domains derived from them.
// It is built once at startup and only ever read afterwards.
type Dataset struct {
	Daily  DailyTable
	Hourly HourlyTable

	seasons  []int
	weathers []int
}

// New wraps already decoded tables and precomputes the selector domains.
func New(daily DailyTable, hourly HourlyTable) *Dataset {
	d := &Dataset{Daily: daily, Hourly: hourly}
	seenS := map[int]struct{}{}
	seenW := map[int]struct{}{}
	for _, r := range daily {
		if _, ok := seenS[r.Season]; !ok {
			seenS[r.Season] = struct{}{}
			d.seasons = append(d.seasons, r.Season)
		}
		if _, ok := seenW[r.Weather]; !ok {
			seenW[r.Weather] = struct{}{}
			d.weathers = append(d.weathers, r.Weather)
		}
	}
	sort.Ints(d.seasons)
	sort.Ints(d.weathers)
	return d
}

// Seasons returns the sorted distinct season values of the daily table.
func (d *Dataset) Seasons() []int { return append([]int(nil), d.seasons...) }

// Weathers returns the sorted distinct weather situations of the daily table.
func (d *Dataset) Weathers() []int { return append([]int(nil), d.weathers...) }

// HasSeason reports whether the season value occurs in the daily table.
func (d *Dataset) HasSeason(v int) bool { return containsInt(d.seasons, v) }

// HasWeather reports whether the weather situation occurs in the daily table.
func (d *Dataset) HasWeather(v int) bool { return containsInt(d.weathers, v) }

func containsInt(sorted []int, v int) bool {
	i := sort.SearchInts(sorted, v)
	return i < len(sorted) && sorted[i] == v
}

// LoadError describes a failure to read or decode an input file.
// Row is 1-based over data rows; 0 means the failure is not tied to a row.
type LoadError struct {
	File   string
	Row    int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("%s: row %d, column %q: %v", e.File, e.Row, e.Column, e.Err)
	case e.Column != "":
		return fmt.Sprintf("%s: column %q: %v", e.File, e.Column, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads the daily and hourly files. Any failure is fatal for the caller.
func Load(dayPath, hourPath string, opt Options) (*Dataset, error) {
	daily, err := LoadDaily(dayPath, opt)
	if err != nil {
		return nil, err
	}
	hourly, err := LoadHourly(hourPath, opt)
	if err != nil {
		return nil, err
	}
	return New(daily, hourly), nil
}

var dailyColumns = []string{
	ColDate, ColSeason, ColYear, ColMonth, ColHoliday, ColWeekday, ColWorkingDay, ColWeather,
	ColTemp, ColATemp, ColHumidity, ColWindspeed, ColCasual, ColRegistered, ColCount,
}

// LoadDaily reads the daily-granularity table.
func LoadDaily(path string, opt Options) (DailyTable, error) {
	cr, err := openColumns(path, opt, dailyColumns)
	if err != nil {
		return nil, err
	}
	out := make(DailyTable, 0, cr.rows)
	for i := 0; i < cr.rows; i++ {
		rec, err := cr.daily(i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadHourly reads the hourly-granularity table.
func LoadHourly(path string, opt Options) (HourlyTable, error) {
	cr, err := openColumns(path, opt, append(append([]string(nil), dailyColumns...), ColHour))
	if err != nil {
		return nil, err
	}
	out := make(HourlyTable, 0, cr.rows)
	for i := 0; i < cr.rows; i++ {
		rec, err := cr.daily(i)
		if err != nil {
			return nil, err
		}
		hr, err := cr.int(ColHour, i)
		if err != nil {
			return nil, err
		}
		out = append(out, HourlyRecord{DailyRecord: rec, Hour: hr})
	}
	return out, nil
}

// columnReader gives typed access to the text columns of a loaded frame.
type columnReader struct {
	file string
	rows int
	cols map[string][]string
}

func openColumns(path string, opt Options, required []string) (*columnReader, error) {
	name := filepath.Base(path)
	l, err := loaderFor(path)
	if err != nil {
		return nil, &LoadError{File: name, Err: err}
	}
	df, err := l.Load(path, opt)
	if err != nil {
		return nil, &LoadError{File: name, Err: err}
	}
	return newColumnReader(name, df, required)
}

func newColumnReader(name string, df dataframe.DataFrame, required []string) (*columnReader, error) {
	cr := &columnReader{file: name, rows: df.Nrow(), cols: make(map[string][]string, len(required))}
	for _, col := range required {
		s := df.Col(col)
		if s.Err != nil {
			return nil, &LoadError{File: name, Column: col, Err: fmt.Errorf("missing column: %w", s.Err)}
		}
		cr.cols[col] = s.Records()
	}
	return cr, nil
}

func (c *columnReader) fail(col string, i int, err error) error {
	return &LoadError{File: c.file, Row: i + 1, Column: col, Err: err}
}

func (c *columnReader) float(col string, i int) (float64, error) {
	raw := strings.TrimSpace(c.cols[col][i])
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, c.fail(col, i, fmt.Errorf("invalid number %q", raw))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, c.fail(col, i, fmt.Errorf("non-finite value %q", raw))
	}
	return f, nil
}

func (c *columnReader) int(col string, i int) (int, error) {
	f, err := c.float(col, i)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, c.fail(col, i, fmt.Errorf("expected integer, got %v", f))
	}
	return int(f), nil
}

var dateLayouts = []string{"2006-01-02", "1/2/2006", "2006/01/02", time.RFC3339}

func (c *columnReader) date(col string, i int) (time.Time, error) {
	raw := strings.TrimSpace(c.cols[col][i])
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, c.fail(col, i, fmt.Errorf("invalid date %q", raw))
}

func (c *columnReader) daily(i int) (DailyRecord, error) {
	var r DailyRecord
	var err error
	if r.Date, err = c.date(ColDate, i); err != nil {
		return r, err
	}
	ints := []struct {
		col string
		dst *int
	}{
		{ColSeason, &r.Season}, {ColYear, &r.Year}, {ColMonth, &r.Month}, {ColHoliday, &r.Holiday},
		{ColWeekday, &r.Weekday}, {ColWorkingDay, &r.WorkingDay}, {ColWeather, &r.Weather},
		{ColCasual, &r.Casual}, {ColRegistered, &r.Registered}, {ColCount, &r.Count},
	}
	for _, f := range ints {
		if *f.dst, err = c.int(f.col, i); err != nil {
			return r, err
		}
	}
	floats := []struct {
		col string
		dst *float64
	}{
		{ColTemp, &r.Temp}, {ColATemp, &r.ATemp}, {ColHumidity, &r.Humidity}, {ColWindspeed, &r.Windspeed},
	}
	for _, f := range floats {
		if *f.dst, err = c.float(f.col, i); err != nil {
			return r, err
		}
	}
	return r, nil
}
