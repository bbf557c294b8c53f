package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/bikedash-cli/internal/dashboard"
	"github.com/KaramelBytes/bikedash-cli/internal/dataset"
	"github.com/KaramelBytes/bikedash-cli/internal/render"
	"github.com/KaramelBytes/bikedash-cli/internal/utils"
)

const (
	reportFileName   = "report.md"
	manifestFileName = "manifest.json"
)

// Manifest describes one exported report.
type Manifest struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Selection dashboard.Selection `json:"selection"`
	Views     []string            `json:"views"`
	// Files are relative to the report directory.
	Files []string `json:"files"`
}

// pather is implemented by sinks that write each chart to its own file.
type pather interface {
	Path(c render.Chart) string
}

// Write computes every view for sel, renders all charts through sink and
// writes report.md plus manifest.json into dir. A nil sink skips charts.
func Write(dir string, ds *dataset.Dataset, sel dashboard.Selection, sink render.Sink) (*Manifest, error) {
	if ds == nil {
		return nil, errors.New("dataset is nil")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	views, err := dashboard.BuildAll(ds, sel)
	if err != nil {
		return nil, err
	}
	m := &Manifest{ID: uuid.NewString(), CreatedAt: time.Now().UTC(), Selection: sel}
	files, _ := sink.(pather)

	var sb strings.Builder
	sb.WriteString("# Bike Sharing Analysis\n\n")
	sb.WriteString(fmt.Sprintf("Report %s, generated %s.\n\n", m.ID, m.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Selection: season %d, weather %d, hour %d.\n", sel.Season, sel.Weather, sel.Hour))
	sb.WriteString(fmt.Sprintf("Rows: %d daily, %d hourly.\n\n", len(ds.Daily), len(ds.Hourly)))

	for _, v := range views {
		m.Views = append(m.Views, v.Name())
		sb.WriteString("## ")
		sb.WriteString(v.Title())
		sb.WriteString("\n\n")
		for _, c := range v.Charts() {
			if sink == nil {
				continue
			}
			if err := sink.Render(c); err != nil {
				return nil, fmt.Errorf("render %s: %w", c.Name, err)
			}
			if files == nil {
				continue
			}
			rel, err := filepath.Rel(dir, files.Path(c))
			if err != nil {
				rel = files.Path(c)
			}
			rel = filepath.ToSlash(rel)
			m.Files = append(m.Files, rel)
			sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", c.Title, rel))
		}
		sb.WriteString(v.Markdown())
		sb.WriteString("\n")
	}

	if err := utils.SafeWriteFile(filepath.Join(dir, reportFileName), []byte(sb.String())); err != nil {
		return nil, err
	}
	m.Files = append(m.Files, reportFileName)
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return nil, err
	}
	if err := utils.SafeWriteFile(filepath.Join(dir, manifestFileName), data); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadManifest reads manifest.json from a report directory.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("report not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
