package token

// Grammar identifies a diagram language.
type Grammar uint8

const (
	GrammarUnknown Grammar = iota
	GrammarFlowchart
	GrammarSequence
	GrammarClass
	GrammarState
	GrammarER
	GrammarPie
	GrammarGantt
	GrammarJourney
)

var grammarNames = [...]string{
	GrammarUnknown:   "unknown",
	GrammarFlowchart: "flowchart",
	GrammarSequence:  "sequence",
	GrammarClass:     "class",
	GrammarState:     "state",
	GrammarER:        "er",
	GrammarPie:       "pie",
	GrammarGantt:     "gantt",
	GrammarJourney:   "journey",
}

func (g Grammar) String() string {
	if int(g) < len(grammarNames) {
		return grammarNames[g]
	}
	return "unknown"
}

// ParseGrammar maps a diagram type name back to its Grammar.
func ParseGrammar(name string) (Grammar, bool) {
	for i, n := range grammarNames {
		if n == name && Grammar(i) != GrammarUnknown {
			return Grammar(i), true
		}
	}
	return GrammarUnknown, false
}

// FoldsCase reports whether keywords of the grammar are case-insensitive.
func (g Grammar) FoldsCase() bool {
	return g == GrammarSequence || g == GrammarGantt
}
