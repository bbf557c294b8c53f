// Package server exposes the dashboard views over HTTP: JSON tables under
// /api and rendered charts under /charts.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/KaramelBytes/bikedash-cli/internal/dashboard"
	"github.com/KaramelBytes/bikedash-cli/internal/dataset"
	"github.com/KaramelBytes/bikedash-cli/internal/render"
)

// Options tune chart size and request logging.
type Options struct {
	// ChartWidth and ChartHeight are in inches.
	ChartWidth  float64
	ChartHeight float64
	// Log receives one line per request when set.
	Log io.Writer
}

// Server serves one loaded dataset. The dataset is never mutated, so handlers share it without locks.
type Server struct {
	ds  *dataset.Dataset
	opt Options
}

// New returns a server over ds.
func New(ds *dataset.Dataset, opt Options) *Server {
	return &Server{ds: ds, opt: opt}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	if s.opt.Log != nil {
		r.Use(s.logMiddleware)
	}
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/selectors", s.handleSelectors).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/{view}", s.handleView).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/charts/{view}/{chart}.png", s.handleChart).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		fmt.Fprintf(s.opt.Log, "%s %s %d %s\n", r.Method, r.URL.RequestURI(), rec.status, time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"views":     dashboard.Names,
		"selectors": "/api/selectors",
		"charts":    "/charts/{view}/{chart}.png",
	})
}

type hourRange struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

type selectorsResponse struct {
	Seasons  []int     `json:"seasons"`
	Weathers []int     `json:"weathers"`
	Hour     hourRange `json:"hour"`
}

func (s *Server) handleSelectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, selectorsResponse{
		Seasons:  s.ds.Seasons(),
		Weathers: s.ds.Weathers(),
		Hour:     hourRange{Min: dataset.MinHour, Max: dataset.MaxHour, Default: dataset.DefaultHour},
	})
}

type viewResponse struct {
	View      string               `json:"view"`
	Title     string               `json:"title"`
	Selection *dashboard.Selection `json:"selection,omitempty"`
	Charts    []chartJSON          `json:"charts"`
	Markdown  string               `json:"markdown"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	v, sel, status, err := s.buildView(mux.Vars(r)["view"], r.URL.Query())
	if err != nil {
		writeError(w, status, err)
		return
	}
	resp := viewResponse{View: v.Name(), Title: v.Title(), Selection: sel, Markdown: v.Markdown()}
	for _, c := range v.Charts() {
		resp.Charts = append(resp.Charts, toChartJSON(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	v, _, status, err := s.buildView(vars["view"], r.URL.Query())
	if err != nil {
		writeError(w, status, err)
		return
	}
	c, ok := dashboard.FindChart(v, vars["chart"])
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("view %s has no chart %q", v.Name(), vars["chart"]))
		return
	}
	var buf bytes.Buffer
	if err := render.WritePNG(&buf, c, s.opt.ChartWidth, s.opt.ChartHeight); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// buildView parses the query parameters a view needs and computes it.
// The returned status is meaningful only when err is non-nil.
func (s *Server) buildView(name string, q url.Values) (dashboard.View, *dashboard.Selection, int, error) {
	var sel *dashboard.Selection
	switch name {
	case dashboard.ViewOverview:
		season, err := intParam(q, "season")
		if err != nil {
			return nil, nil, http.StatusBadRequest, err
		}
		weather, err := intParam(q, "weather")
		if err != nil {
			return nil, nil, http.StatusBadRequest, err
		}
		sel = &dashboard.Selection{Season: season, Weather: weather}
	case dashboard.ViewHourly:
		hour, err := intParam(q, "hour")
		if err != nil {
			return nil, nil, http.StatusBadRequest, err
		}
		if hour < dataset.MinHour || hour > dataset.MaxHour {
			return nil, nil, http.StatusBadRequest, fmt.Errorf("hour must be between %d and %d, got %d", dataset.MinHour, dataset.MaxHour, hour)
		}
		sel = &dashboard.Selection{Hour: hour}
	}
	var build dashboard.Selection
	if sel != nil {
		build = *sel
	}
	v, err := dashboard.Build(name, s.ds, build)
	if errors.Is(err, dashboard.ErrUnknownView) {
		return nil, nil, http.StatusNotFound, err
	}
	if err != nil {
		return nil, nil, http.StatusInternalServerError, err
	}
	return v, sel, http.StatusOK, nil
}

func intParam(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %q", key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be an integer, got %q", key, raw)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// JSON has no NaN, so chart values travel as nullable numbers.

type seriesJSON struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

type gridJSON struct {
	RowLabels []string     `json:"rowLabels"`
	ColLabels []string     `json:"colLabels"`
	Values    [][]*float64 `json:"values"`
}

type chartJSON struct {
	Name   string       `json:"name"`
	Title  string       `json:"title"`
	Kind   render.Kind  `json:"kind"`
	Axes   render.Axes  `json:"axes"`
	Empty  bool         `json:"empty"`
	Labels []string     `json:"labels,omitempty"`
	Series []seriesJSON `json:"series,omitempty"`
	Grid   *gridJSON    `json:"grid,omitempty"`
}

func toChartJSON(c render.Chart) chartJSON {
	out := chartJSON{Name: c.Name, Title: c.Title, Kind: c.Kind, Axes: c.Axes, Empty: c.Empty(), Labels: c.Labels}
	for _, sr := range c.Series {
		out.Series = append(out.Series, seriesJSON{Name: sr.Name, Values: nullable(sr.Values)})
	}
	if c.Grid != nil {
		g := &gridJSON{RowLabels: c.Grid.RowLabels, ColLabels: c.Grid.ColLabels}
		for _, row := range c.Grid.Values {
			g.Values = append(g.Values, nullable(row))
		}
		out.Grid = g
	}
	return out
}

func nullable(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		if math.IsNaN(vs[i]) || math.IsInf(vs[i], 0) {
			continue
		}
		v := vs[i]
		out[i] = &v
	}
	return out
}
