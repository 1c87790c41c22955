package parser

import (
	"regexp"

	"mmdcheck/internal/token"
)

var grammars map[token.Grammar]func(*Parser)

func init() {
	grammars = map[token.Grammar]func(*Parser){
		token.GrammarFlowchart: (*Parser).parseFlowchart,
		token.GrammarSequence:  (*Parser).parseSequence,
		token.GrammarClass:     (*Parser).parseClass,
		token.GrammarState:     (*Parser).parseState,
		token.GrammarER:        (*Parser).parseER,
		token.GrammarPie:       (*Parser).parsePie,
		token.GrammarGantt:     (*Parser).parseGantt,
		token.GrammarJourney:   (*Parser).parseJourney,
	}
}

type detector struct {
	grammar token.Grammar
	re      *regexp.Regexp
}

// detectors run in order; the first match wins.
var detectors = []detector{
	{token.GrammarFlowchart, regexp.MustCompile(`^\s*(?:graph|flowchart-elk|flowchart)`)},
	{token.GrammarSequence, regexp.MustCompile(`^\s*sequenceDiagram`)},
	{token.GrammarClass, regexp.MustCompile(`^\s*classDiagram`)},
	{token.GrammarState, regexp.MustCompile(`^\s*stateDiagram`)},
	{token.GrammarER, regexp.MustCompile(`^\s*erDiagram`)},
	{token.GrammarPie, regexp.MustCompile(`^\s*pie`)},
	{token.GrammarGantt, regexp.MustCompile(`^\s*gantt`)},
	{token.GrammarJourney, regexp.MustCompile(`^\s*journey`)},
}

// Detect picks the grammar of a diagram from its first significant word.
// Comments, frontmatter and directives must already be blanked out.
func Detect(text string) (token.Grammar, bool) {
	for _, d := range detectors {
		if d.re.MatchString(text) {
			return d.grammar, true
		}
	}
	return token.GrammarUnknown, false
}

// Supports reports whether a parser exists for g.
func Supports(g token.Grammar) bool {
	_, ok := grammars[g]
	return ok
}
