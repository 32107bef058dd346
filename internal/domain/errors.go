package domain

import "fmt"

// Source names used in LoadError and as metric labels.
const (
	SourceCounties = "counties"
	SourceStates   = "states"
	SourceAbbrevs  = "abbrevs"
)

// LoadError reports that one of the source documents could not be fetched or
// parsed. A LoadError is fatal to the computation that hit it.
type LoadError struct {
	Source   string
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("load %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("load %s from %s: %v", e.Source, e.Location, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
