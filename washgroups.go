package taxlot

// washGroups is the registry of ticker equivalence classes for wash-sale
// analysis. A ticker never declared in a group forms its own singleton class.
// Groups sharing a ticker merge into one class.
type washGroups struct {
	classes map[string]map[string]bool // ticker -> its full equivalence set (shared)
}

func newWashGroups() *washGroups {
	return &washGroups{classes: make(map[string]map[string]bool)}
}

// declare merges the given tickers (and their existing classes) into one
// equivalence class.
func (g *washGroups) declare(tickers []string) {
	merged := make(map[string]bool)
	for _, ticker := range tickers {
		merged[ticker] = true
		for t := range g.classes[ticker] {
			merged[t] = true
		}
	}
	for t := range merged {
		g.classes[t] = merged
	}
}

// matches reports whether two tickers are substantially identical: equal, or
// members of the same declared class.
func (g *washGroups) matches(a, b string) bool {
	if a == b {
		return true
	}
	return g.classes[a][b]
}
