package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Digest identifies a set of source documents by content. Identical documents
// always produce the same digest.
func (s Sources) Digest() string {
	h := sha256.New()
	for _, doc := range [][]byte{s.Counties, s.States, s.Abbrevs} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(doc)))
		h.Write(n[:])
		h.Write(doc)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ComputeView runs parse, aggregate, join, color scale and summary over the
// source documents. It has no side effects and leaves ComputedAt zero. Parse
// failures are returned as *LoadError.
func ComputeView(src Sources) (View, error) {
	counties, err := ParseCountyIncome(bytes.NewReader(src.Counties))
	if err != nil {
		return View{}, &LoadError{Source: SourceCounties, Err: err}
	}
	polygons, err := ParseStatePolygons(src.States)
	if err != nil {
		return View{}, &LoadError{Source: SourceStates, Err: err}
	}
	abbrevs, err := ParseStateAbbrevs(src.Abbrevs)
	if err != nil {
		return View{}, &LoadError{Source: SourceAbbrevs, Err: err}
	}

	aggregates := Aggregate(counties)
	states, report := Join(polygons, abbrevs, aggregates)

	return View{
		Digest:     src.Digest(),
		Counties:   counties,
		Aggregates: aggregates,
		States:     states,
		Scale:      NewColorScale(states),
		Summary:    Summarize(states),
		Join:       report,
	}, nil
}

// StateNames lists the selectable state names of the view.
func (v View) StateNames() []string {
	return StateNames(v.States)
}

// Fill returns the map fill for a state of this view.
func (v View) Fill(s StateView) string {
	return v.Scale.Fill(s.MedianIncome2015())
}
