package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/bikedash-cli/internal/dataset"
	"github.com/xuri/excelize/v2"
)

const dayHeader = "instant,dteday,season,yr,mnth,holiday,weekday,workingday,weathersit,temp,atemp,hum,windspeed,casual,registered,cnt"

var dayRows = []string{
	dayHeader,
	"1,2011-01-01,1,0,1,0,6,0,2,0.344167,0.363625,0.805833,0.160446,331,654,985",
	"2,2011-01-02,1,0,1,0,0,0,2,0.363478,0.353739,0.696087,0.248539,131,670,801",
	"3,2011-01-03,1,0,1,0,1,1,1,0.196364,0.189405,0.437273,0.248309,120,1229,1349",
	"4,2011-04-01,2,0,4,0,5,1,3,0.3,0.28,0.9,0.2,50,500,550",
}

func writeFile(t *testing.T, name string, lines []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadDailyCSV(t *testing.T) {
	p := writeFile(t, "day.csv", dayRows)
	tbl, err := dataset.LoadDaily(p, dataset.Options{})
	if err != nil {
		t.Fatalf("LoadDaily: %v", err)
	}
	if len(tbl) != 4 {
		t.Fatalf("rows = %d, want 4", len(tbl))
	}
	first := tbl[0]
	if !first.Date.Equal(time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v", first.Date)
	}
	if first.Season != 1 || first.Weather != 2 || first.Weekday != 6 || first.WorkingDay != 0 {
		t.Fatalf("unexpected dimensions: %+v", first)
	}
	if first.Count != 985 || first.Casual != 331 || first.Registered != 654 {
		t.Fatalf("unexpected counts: %+v", first)
	}
	if v, ok := tbl.Value(0, dataset.ColTemp); !ok || v != 0.344167 {
		t.Fatalf("temp = %v (%v)", v, ok)
	}
	if _, ok := tbl.Value(0, "nope"); ok {
		t.Fatalf("unknown column should not resolve")
	}
}

func TestLoadHourlyTSV(t *testing.T) {
	header := strings.ReplaceAll(dayHeader, ",weekday,", ",hr,weekday,")
	lines := []string{
		strings.ReplaceAll(header, ",", "\t"),
		strings.ReplaceAll("1,2011-01-01,1,0,1,0,0,6,0,1,0.24,0.2879,0.81,0,3,13,16", ",", "\t"),
		strings.ReplaceAll("2,2011-01-01,1,0,1,0,1,6,0,1,0.22,0.2727,0.8,0,8,32,40", ",", "\t"),
	}
	p := writeFile(t, "hour.tsv", lines)
	tbl, err := dataset.LoadHourly(p, dataset.Options{})
	if err != nil {
		t.Fatalf("LoadHourly: %v", err)
	}
	if len(tbl) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl))
	}
	if tbl[1].Hour != 1 || tbl[1].Count != 40 {
		t.Fatalf("unexpected second row: %+v", tbl[1])
	}
	if v, ok := tbl.Value(1, dataset.ColHour); !ok || v != 1 {
		t.Fatalf("hr = %v (%v)", v, ok)
	}
}

func TestLoadMalformedRowIsFatal(t *testing.T) {
	rows := append([]string(nil), dayRows...)
	rows[2] = "2,2011-01-02,1,0,1,0,0,0,2,abc,0.353739,0.696087,0.248539,131,670,801"
	p := writeFile(t, "day.csv", rows)
	_, err := dataset.LoadDaily(p, dataset.Options{})
	var le *dataset.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if le.Row != 2 || le.Column != dataset.ColTemp {
		t.Fatalf("error location = row %d col %q", le.Row, le.Column)
	}
}

func TestLoadMissingColumnAndFile(t *testing.T) {
	p := writeFile(t, "day.csv", []string{"dteday,season", "2011-01-01,1"})
	if _, err := dataset.LoadDaily(p, dataset.Options{}); err == nil {
		t.Fatalf("expected missing column error")
	}
	if _, err := dataset.LoadDaily(filepath.Join(t.TempDir(), "absent.csv"), dataset.Options{}); err == nil {
		t.Fatalf("expected missing file error")
	}
	if _, err := dataset.LoadDaily(filepath.Join(t.TempDir(), "day.parquet"), dataset.Options{}); !errors.Is(err, dataset.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestLoadDailyXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	for i, line := range dayRows {
		cells := strings.Split(line, ",")
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	p := filepath.Join(t.TempDir(), "day.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	tbl, err := dataset.LoadDaily(p, dataset.Options{})
	if err != nil {
		t.Fatalf("LoadDaily xlsx: %v", err)
	}
	if len(tbl) != 4 || tbl[3].Season != 2 || tbl[3].Count != 550 {
		t.Fatalf("unexpected xlsx rows: %+v", tbl)
	}
}

func TestSelectorsAreSortedDistinct(t *testing.T) {
	ds := dataset.New(dataset.DailyTable{
		{Season: 3, Weather: 2},
		{Season: 1, Weather: 1},
		{Season: 3, Weather: 1},
		{Season: 2, Weather: 3},
	}, nil)
	if got := ds.Seasons(); !equalInts(got, []int{1, 2, 3}) {
		t.Fatalf("seasons = %v", got)
	}
	if got := ds.Weathers(); !equalInts(got, []int{1, 2, 3}) {
		t.Fatalf("weathers = %v", got)
	}
	if !ds.HasSeason(2) || ds.HasSeason(4) {
		t.Fatalf("HasSeason mismatch")
	}
	if ds.HasWeather(4) {
		t.Fatalf("HasWeather(4) should be false")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
