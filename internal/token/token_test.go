package token_test

import (
	"testing"

	"mmdcheck/internal/source"
	"mmdcheck/internal/token"
)

func tok(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}, Text: text}
}

func TestTerminalNames(t *testing.T) {
	cases := []struct {
		tok  token.Token
		want string
	}{
		{tok(token.EOF, ""), "EOF"},
		{tok(token.Newline, "\n"), "NEWLINE"},
		{tok(token.Word, "A"), "NODE_STRING"},
		{tok(token.StartLink, "--"), "START_LINK"},
		{tok(token.Keyword, "end"), "end"},
		{tok(token.Keyword, "classDef"), "classDef"},
		{tok(token.ShapeStart, "[("), "CYLINDERSTART"},
		{tok(token.ShapeEnd, "]"), "SQE"},
		{tok(token.ShapeEnd, "??"), "SHAPE_END"},
		{tok(token.Kind(200), ""), "UNKNOWN"},
	}
	for _, tc := range cases {
		if got := tc.tok.Terminal(); got != tc.want {
			t.Errorf("Terminal(%v %q) = %q, want %q", tc.tok.Kind, tc.tok.Text, got, tc.want)
		}
	}
	if got := token.EdgeText.Quoted(); got != "'EDGE_TEXT'" {
		t.Fatalf("Quoted = %q", got)
	}
}

func TestTokenPredicates(t *testing.T) {
	if !tok(token.Semi, ";").IsEnd() || !tok(token.EOF, "").IsEnd() {
		t.Fatalf("separators and EOF must end a statement")
	}
	if tok(token.EOF, "").IsSeparator() {
		t.Fatalf("EOF is not a separator")
	}
	if !tok(token.Keyword, "LOOP").Is("loop") {
		t.Fatalf("keyword comparison must ignore case")
	}
	if tok(token.Word, "loop").Is("loop") {
		t.Fatalf("words are never keywords")
	}
	if !tok(token.Num, "1").IsWord() {
		t.Fatalf("numbers are usable as names")
	}
}

func TestLookupKeyword(t *testing.T) {
	cases := []struct {
		g    token.Grammar
		word string
		want bool
	}{
		{token.GrammarFlowchart, "subgraph", true},
		{token.GrammarFlowchart, "Subgraph", false},
		{token.GrammarFlowchart, "ending", false},
		{token.GrammarSequence, "Participant", true},
		{token.GrammarSequence, "LOOP", true},
		{token.GrammarSequence, "Alice", false},
		{token.GrammarGantt, "dateFormat", true},
		{token.GrammarClass, "cssClass", true},
		{token.GrammarState, "end", true},
		{token.GrammarPie, "showData", true},
		{token.GrammarUnknown, "graph", false},
	}
	for _, tc := range cases {
		if got := token.LookupKeyword(tc.g, tc.word); got != tc.want {
			t.Errorf("LookupKeyword(%v, %q) = %v, want %v", tc.g, tc.word, got, tc.want)
		}
	}
}

func TestGrammarNames(t *testing.T) {
	for g := token.GrammarFlowchart; g <= token.GrammarJourney; g++ {
		back, ok := token.ParseGrammar(g.String())
		if !ok || back != g {
			t.Errorf("ParseGrammar(%q) = %v, %v", g.String(), back, ok)
		}
	}
	if _, ok := token.ParseGrammar("unknown"); ok {
		t.Fatalf("unknown must not parse")
	}
}

func TestShapeTables(t *testing.T) {
	openers := token.ShapeOpeners()
	if openers[0] != "(((" {
		t.Fatalf("longest opener must come first, got %q", openers[0])
	}
	seen := map[string]bool{}
	for _, o := range openers {
		if seen[o] {
			t.Fatalf("duplicate opener %q", o)
		}
		seen[o] = true
	}

	if closers := token.ShapeClosers(); closers[0] != ")))" || closers[len(closers)-1] != "}" {
		t.Fatalf("closers must be ordered longest first: %v", closers)
	}

	closers := token.ClosersFor("[/")
	if len(closers) != 2 || closers[0].Shape != token.ShapeLeanRight || closers[1].Shape != token.ShapeTrapezoid {
		t.Fatalf("unexpected closers for [/: %+v", closers)
	}
	if got := token.ShapeEndName("))"); got != "CIRCLEEND" {
		t.Fatalf("ShapeEndName = %q", got)
	}
	if token.ShapeHexagon.String() != "hexagon" {
		t.Fatalf("unexpected shape name %q", token.ShapeHexagon.String())
	}
}
