package httpadapter

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/couchcryptid/county-income-map/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

var printer = message.NewPrinter(language.English)

var dashboardTmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"usd":  formatUSD,
	"usdv": func(v float64) string { return formatUSD(&v) },
	"pct":  formatPct,
}).ParseFS(templateFS, "templates/*.html"))

// Map framing for the contiguous United States.
var (
	mapCenter = [2]float64{35.3, -97.6}
	mapZoom   = 4
)

type legendStop struct {
	Offset string
	Color  string
}

type dashboardData struct {
	Title      string
	Names      []string
	Selection  domain.StateSelection
	Summary    domain.Summary
	Scale      domain.ColorScale
	Legend     []legendStop
	Join       domain.JoinReport
	ComputedAt string
	Center     [2]float64
	Zoom       int
}

type errorData struct {
	Title   string
	Message string
}

const dashboardTitle = "State Income Map through the US"

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := s.views.View(r.Context())
	if err != nil {
		s.logger.Error("dashboard unavailable", "error", err)
		s.render(w, statusFor(err), "error.html", errorData{Title: dashboardTitle, Message: err.Error()})
		return
	}

	names := view.StateNames()
	name := r.URL.Query().Get("state")
	if name == "" && len(names) > 0 {
		name = names[0]
	}

	s.render(w, http.StatusOK, "dashboard.html", dashboardData{
		Title:      dashboardTitle,
		Names:      names,
		Selection:  domain.Select(view, name),
		Summary:    view.Summary,
		Scale:      view.Scale,
		Legend:     legendStops(view.Scale),
		Join:       view.Join,
		ComputedAt: view.ComputedAt.UTC().Format(time.RFC1123),
		Center:     mapCenter,
		Zoom:       mapZoom,
	})
}

// render executes into a buffer first so a template failure still produces a
// clean 500 instead of a half-written page.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := dashboardTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("render template failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func legendStops(scale domain.ColorScale) []legendStop {
	n := len(scale.Anchors)
	stops := make([]legendStop, n)
	for i, c := range scale.Anchors {
		offset := 0.0
		if n > 1 {
			offset = float64(i) / float64(n-1) * 100
		}
		stops[i] = legendStop{Offset: printer.Sprintf("%.0f%%", offset), Color: c.Hex()}
	}
	return stops
}

func formatUSD(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return printer.Sprintf("$%.0f", *v)
}

func formatPct(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return printer.Sprintf("%.1f%%", *v)
}
