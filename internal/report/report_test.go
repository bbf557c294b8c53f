package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/bikedash-cli/internal/dashboard"
	"github.com/KaramelBytes/bikedash-cli/internal/dataset"
	"github.com/KaramelBytes/bikedash-cli/internal/render"
	"github.com/KaramelBytes/bikedash-cli/internal/report"
)

func sample() *dataset.Dataset {
	d := func(m time.Month, day int) time.Time { return time.Date(2011, m, day, 0, 0, 0, 0, time.UTC) }
	daily := dataset.DailyTable{
		{Date: d(1, 1), Season: 1, Weather: 1, Temp: 0.2, ATemp: 0.2, Humidity: 0.8, Windspeed: 0.1, Casual: 4, Registered: 6, Count: 10},
		{Date: d(1, 2), Season: 1, Weather: 1, WorkingDay: 1, Temp: 0.4, ATemp: 0.4, Humidity: 0.7, Windspeed: 0.3, Casual: 5, Registered: 15, Count: 20},
		{Date: d(1, 3), Season: 1, Weather: 2, WorkingDay: 1, Temp: 0.1, ATemp: 0.1, Humidity: 0.9, Windspeed: 0.2, Casual: 1, Registered: 4, Count: 5},
	}
	hourly := dataset.HourlyTable{
		{DailyRecord: dataset.DailyRecord{Date: d(1, 1), Weekday: 6, Count: 9}, Hour: 12},
		{DailyRecord: dataset.DailyRecord{Date: d(1, 2), Weekday: 0, Count: 4}, Hour: 12},
	}
	return dataset.New(daily, hourly)
}

func TestWriteReportWithCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := &render.PNGSink{Dir: filepath.Join(dir, "charts"), Width: 4, Height: 3}
	sel := dashboard.Selection{Season: 1, Weather: 1, Hour: 12}

	m, err := report.Write(dir, sample(), sel, sink)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := uuid.Parse(m.ID); err != nil {
		t.Fatalf("manifest id is not a uuid: %q", m.ID)
	}
	if len(m.Views) != len(dashboard.Names) {
		t.Fatalf("views: got %v", m.Views)
	}
	if len(sink.Files) == 0 || len(m.Files) != len(sink.Files)+1 {
		t.Fatalf("files: manifest %d, sink %d", len(m.Files), len(sink.Files))
	}
	for _, f := range m.Files {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(f))); err != nil {
			t.Fatalf("missing %s: %v", f, err)
		}
	}

	md, err := os.ReadFile(filepath.Join(dir, "report.md"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# Bike Sharing Analysis", "![", "charts/overview-count.png", "[SUMMARY STATISTICS]", "Weekday", "[RFM]"} {
		if !strings.Contains(string(md), want) {
			t.Fatalf("report.md missing %q", want)
		}
	}

	loaded, err := report.LoadManifest(dir)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if loaded.ID != m.ID || loaded.Selection != sel {
		t.Fatalf("manifest round trip mismatch: %+v", loaded)
	}
}

func TestWriteReportTermSink(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	m, err := report.Write(dir, sample(), dashboard.Selection{Season: 9, Weather: 9, Hour: 3}, render.TermSink{W: &buf})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(m.Files) != 1 || m.Files[0] != "report.md" {
		t.Fatalf("files: %v", m.Files)
	}
	if !strings.Contains(buf.String(), "(no data)") {
		t.Fatalf("expected empty charts in terminal output")
	}
}

func TestLoadManifestMissing(t *testing.T) {
	if _, err := report.LoadManifest(t.TempDir()); err == nil {
		t.Fatalf("expected error")
	}
}
