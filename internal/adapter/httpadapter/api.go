package httpadapter

import (
	"errors"
	"net/http"

	"github.com/couchcryptid/county-income-map/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb/geojson"
)

// stateRow is a StateView without geometry, as served by /api/states.
type stateRow struct {
	Name             string   `json:"name"`
	Alpha2           string   `json:"alpha-2"`
	MedianIncome2015 *float64 `json:"medianincome_2015"`
	MedianIncome1989 *float64 `json:"medianincome_1989"`
	Change           *float64 `json:"change"`
	FillColor        string   `json:"fillColor"`
}

func newStateRow(view domain.View, s domain.StateView) stateRow {
	return stateRow{
		Name:             s.Name,
		Alpha2:           s.Alpha2,
		MedianIncome2015: s.MedianIncome2015(),
		MedianIncome1989: s.MedianIncome1989(),
		Change:           s.MedianChange(),
		FillColor:        view.Fill(s),
	}
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	rows := make([]stateRow, 0, len(view.States))
	for _, st := range view.States {
		rows = append(rows, newStateRow(view, st))
	}
	sharedobs.WriteJSON(w, http.StatusOK, rows)
}

// handleStatesGeoJSON serves the choropleth layer. Each feature carries its
// fill so the browser does no color math.
func (s *Server) handleStatesGeoJSON(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}

	fc := newStatesFeatureCollection(view)
	data, err := fc.MarshalJSON()
	if err != nil {
		s.logger.Error("encode states geojson failed", "error", err)
		writeError(w, http.StatusInternalServerError, "encode geojson")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func newStatesFeatureCollection(view domain.View) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, st := range view.States {
		feat := geojson.NewFeature(st.Geometry)
		feat.ID = st.Alpha2
		feat.Properties["name"] = st.Name
		feat.Properties["alpha-2"] = st.Alpha2
		feat.Properties["medianincome_2015"] = st.MedianIncome2015()
		feat.Properties["medianincome_1989"] = st.MedianIncome1989()
		feat.Properties["change"] = st.MedianChange()
		feat.Properties["fillColor"] = view.Fill(st)
		feat.Properties["fillOpacity"] = 0.6
		feat.Properties["color"] = "black"
		fc.Append(feat)
	}
	return fc
}

func (s *Server) handleCounties(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, domain.Select(view, chi.URLParam(r, "name")))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, view.Summary)
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, view.Scale)
}

// view fetches the current view and writes a 502 when the sources could not
// be loaded.
func (s *Server) view(w http.ResponseWriter, r *http.Request) (domain.View, bool) {
	view, err := s.views.View(r.Context())
	if err != nil {
		s.logger.Error("view unavailable", "error", err, "path", r.URL.Path)
		writeError(w, statusFor(err), err.Error())
		return domain.View{}, false
	}
	return view, true
}

func statusFor(err error) int {
	var loadErr *domain.LoadError
	if errors.As(err, &loadErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, message string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": message})
}
