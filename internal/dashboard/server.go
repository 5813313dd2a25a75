// Package dashboard serves the single interactive page: a dropdown of column
// names driving a live scatter plot of the chosen column against the target.
// The table is read-only here; every selection re-renders one SVG.
package dashboard

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/motorlab/carscope/internal/dataset"
)

// Server holds the shared read-only table and the fixed target column.
type Server struct {
	table  *dataset.Table
	target string
}

// New builds a dashboard over the table. The target must be numeric.
func New(t *dataset.Table, target string) (*Server, error) {
	if _, err := t.Numeric(target); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &Server{table: t, target: target}, nil
}

// Routes wires the two endpoints onto a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Get("/", s.handleIndex)
	r.Get("/plot", s.handlePlot)
	return r
}

// ListenAndServe blocks serving the dashboard on addr.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Routes())
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>carscope</title>
<style>
 body { font-family: sans-serif; margin: 2rem; }
 #plot svg { max-width: 720px; }
</style>
</head>
<body>
<h1>carscope</h1>
<p>Scatter of the chosen column against <b>{{.Target}}</b>.</p>
<select id="x">
{{range .Columns}}<option value="{{.}}">{{.}}</option>{{end}}
</select>
<div id="plot"></div>
<script>
const sel = document.getElementById("x");
async function redraw() {
  const res = await fetch("/plot?x=" + encodeURIComponent(sel.value));
  document.getElementById("plot").innerHTML = await res.text();
}
sel.addEventListener("change", redraw);
redraw();
</script>
</body>
</html>`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var columns []string
	for _, c := range s.table.Columns() {
		if c != s.target {
			columns = append(columns, c)
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, map[string]any{
		"Target":  s.target,
		"Columns": columns,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	x := r.URL.Query().Get("x")
	xs, err := s.columnValues(x)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}
	ys, err := s.table.Numeric(s.target)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err)
		return
	}

	c := chart.Chart{
		Width:  720,
		Height: 480,
		XAxis:  chart.XAxis{Name: x},
		YAxis:  chart.YAxis{Name: s.target},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    5,
					DotColor:    drawing.ColorBlue,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := c.Render(chart.SVG, w); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Errorf("render plot: %w", err))
	}
}

// columnValues resolves a column to plottable floats: numeric columns pass
// through, nominal ones fall back to their numeric code when the label parses
// (the recast columns keep their original codes as labels).
func (s *Server) columnValues(name string) ([]float64, error) {
	if name == "" {
		return nil, fmt.Errorf("missing x parameter")
	}
	if !s.table.IsNominal(name) {
		return s.table.Numeric(name)
	}
	cats, err := s.table.Categories(name)
	if err != nil {
		return nil, err
	}
	levels, err := s.table.Levels(name)
	if err != nil {
		return nil, err
	}
	levelIdx := make(map[string]float64, len(levels))
	for i, l := range levels {
		levelIdx[l] = float64(i)
	}
	vals := make([]float64, len(cats))
	for i, c := range cats {
		if v, err := strconv.ParseFloat(c, 64); err == nil {
			vals[i] = v
		} else {
			vals[i] = levelIdx[c]
		}
	}
	return vals, nil
}

func writeJSONError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
