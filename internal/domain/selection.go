package domain

import (
	"sort"
)

// StateSelection is everything the dashboard shows for one selected state.
type StateSelection struct {
	Name      string          `json:"name"`
	Alpha2    string          `json:"alpha-2,omitempty"`
	Found     bool            `json:"found"`
	Aggregate *StateAggregate `json:"aggregate"`
	Counties  []CountyIncome  `json:"counties"`
}

// StateNames returns the distinct state names in sorted order.
func StateNames(states []StateView) []string {
	seen := make(map[string]bool, len(states))
	names := make([]string, 0, len(states))
	for _, s := range states {
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// ResolveState finds the state with exactly the given name.
func ResolveState(states []StateView, name string) (StateView, bool) {
	for _, s := range states {
		if s.Name == name {
			return s, true
		}
	}
	return StateView{}, false
}

// FilterCounties returns the counties of one state code in source order,
// skipping rows whose 2015 or 1989 income is missing.
func FilterCounties(counties []CountyIncome, code string) []CountyIncome {
	out := make([]CountyIncome, 0)
	if code == "" {
		return out
	}
	for _, c := range counties {
		if c.State != code || c.Income2015 == nil || c.Income1989 == nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Select resolves a state name and collects its county detail, sorted by 2015
// income descending. An unknown name yields an empty selection.
func Select(view View, name string) StateSelection {
	sel := StateSelection{Name: name, Counties: []CountyIncome{}}

	state, ok := ResolveState(view.States, name)
	if !ok {
		return sel
	}
	sel.Found = true
	sel.Alpha2 = state.Alpha2
	sel.Aggregate = state.Aggregate
	sel.Counties = FilterCounties(view.Counties, state.Alpha2)
	sort.SliceStable(sel.Counties, func(i, j int) bool {
		return *sel.Counties[i].Income2015 > *sel.Counties[j].Income2015
	})
	return sel
}
