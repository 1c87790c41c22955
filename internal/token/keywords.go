package token

import "strings"

var keywords = map[Grammar]map[string]struct{}{
	GrammarFlowchart: set(
		"graph", "flowchart", "flowchart-elk", "subgraph", "end", "direction",
		"classDef", "class", "style", "linkStyle", "click", "accTitle", "accDescr",
	),
	// sequence and gantt keywords are stored lowercase, see FoldsCase
	GrammarSequence: set(
		"sequencediagram", "participant", "actor", "create", "destroy", "box",
		"note", "activate", "deactivate", "loop", "alt", "else", "opt", "par",
		"and", "critical", "option", "break", "rect", "end", "autonumber",
		"title", "acctitle", "accdescr", "link", "links", "properties", "details",
	),
	GrammarClass: set(
		"classDiagram", "classDiagram-v2", "class", "namespace", "note", "direction",
		"classDef", "cssClass", "style", "click", "link", "callback",
		"accTitle", "accDescr", "title",
	),
	GrammarState: set(
		"stateDiagram", "stateDiagram-v2", "state", "note", "end", "direction",
		"classDef", "class", "style", "hide", "scale", "accTitle", "accDescr", "title",
	),
	GrammarER: set(
		"erDiagram", "direction", "accTitle", "accDescr", "title",
	),
	GrammarPie: set(
		"pie", "showData", "title", "accTitle", "accDescr",
	),
	GrammarGantt: set(
		"gantt", "dateformat", "axisformat", "tickinterval", "todaymarker",
		"excludes", "includes", "weekday", "weekend", "inclusiveenddates",
		"topaxis", "title", "section", "click", "acctitle", "accdescr",
	),
	GrammarJourney: set(
		"journey", "title", "section", "accTitle", "accDescr",
	),
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// LookupKeyword reports whether word is a keyword of the grammar.
// Only sequence and gantt keywords are case-insensitive.
func LookupKeyword(g Grammar, word string) bool {
	table, ok := keywords[g]
	if !ok {
		return false
	}
	if g.FoldsCase() {
		word = strings.ToLower(word)
	}
	_, ok = table[word]
	return ok
}
