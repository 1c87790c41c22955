package parser

import (
	"strings"
	"testing"

	"mmdcheck/internal/ast"
	"mmdcheck/internal/diag"
	"mmdcheck/internal/token"
)

func TestValidDiagrams(t *testing.T) {
	tests := []struct {
		name    string
		grammar token.Grammar
		src     string
	}{
		{"flowchart minimal", token.GrammarFlowchart, "graph TD; A-->B"},
		{"flowchart shapes and labels", token.GrammarFlowchart, strings.Join([]string{
			"flowchart LR",
			"  A[Start] --> B{Is it?}",
			"  B -->|Yes| C(OK)",
			"  B -- No --> D((Stop))",
		}, "\n")},
		{"flowchart subgraph", token.GrammarFlowchart, strings.Join([]string{
			"graph TB",
			"  subgraph one [Title]",
			"    direction LR",
			"    a1-->a2",
			"  end",
			"  c1-->a2",
		}, "\n")},
		{"flowchart styling", token.GrammarFlowchart, strings.Join([]string{
			"graph LR",
			"  A:::hot --> B",
			"  classDef hot fill:#f96",
			"  class A hot",
			"  style B fill:#bbf,stroke:#333",
			"  linkStyle 0 stroke:#ff3",
			"  click A callback",
		}, "\n")},
		{"flowchart link kinds", token.GrammarFlowchart, strings.Join([]string{
			"graph TD",
			"  A & B --> C & D",
			"  %% comment",
			"  E --- F",
			"  G -.-> H",
			"  I ==> J",
		}, "\n")},
		{"flowchart accessibility", token.GrammarFlowchart, strings.Join([]string{
			"graph TD",
			"accTitle: Flow",
			"accDescr {",
			"  multi",
			"}",
			"A-->B",
		}, "\n")},
		{"sequence", token.GrammarSequence, strings.Join([]string{
			"sequenceDiagram",
			"  participant A as Alice",
			"  actor B",
			"  A->>+B: Hello",
			"  B-->>-A: Hi",
			"  Note over A,B: shared",
			"  loop Every minute",
			"    A-)B: ping",
			"  end",
			"  alt ok",
			"    A->>B: yes",
			"  else fail",
			"    A-xB: no",
			"  end",
			"  autonumber",
			"  activate A",
			"  deactivate A",
		}, "\n")},
		{"class", token.GrammarClass, strings.Join([]string{
			"classDiagram",
			"  class Animal {",
			"    +String name",
			"    +eat() void",
			"  }",
			"  class List~T~",
			"  Animal <|-- Dog",
			`  Customer "1" --> "*" Ticket : owns`,
			"  Animal : +int age",
			"  <<interface>> Animal",
			`  note for Dog "good boy"`,
		}, "\n")},
		{"state", token.GrammarState, strings.Join([]string{
			"stateDiagram-v2",
			"  [*] --> Still",
			"  Still --> Moving : push",
			"  Moving --> [*]",
			`  state "Long name" as LN`,
			"  state Fork <<fork>>",
			"  state Comp {",
			"    a --> b",
			"    --",
			"    c --> d",
			"  }",
			"  note right of Still : resting",
			"  note left of Moving",
			"    line one",
			"    line two",
			"  end note",
			"  Still : a still state",
		}, "\n")},
		{"er", token.GrammarER, strings.Join([]string{
			"erDiagram",
			"  CUSTOMER ||--o{ ORDER : places",
			"  CUSTOMER {",
			"    string name PK",
			`    int age "years"`,
			"  }",
			"  ORDER }|..|{ LINE-ITEM : contains",
		}, "\n")},
		{"pie", token.GrammarPie, strings.Join([]string{
			"pie showData title Key elements",
			`  "Calcium" : 42.96`,
			`  "Iron" : 5`,
		}, "\n")},
		{"gantt", token.GrammarGantt, strings.Join([]string{
			"gantt",
			"  title A Gantt",
			"  dateFormat YYYY-MM-DD",
			"  excludes weekends",
			"  section Section",
			"  A task :a1, 2014-01-01, 30d",
			"  Another task :after a1, 20d",
		}, "\n")},
		{"journey", token.GrammarJourney, strings.Join([]string{
			"journey",
			"  title My day",
			"  section Go to work",
			"    Make tea: 5: Me",
			"    Go upstairs: 3: Me, Cat",
		}, "\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseValid(t, tt.grammar, tt.src)
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		grammar  token.Grammar
		src      string
		code     diag.Code
		token    string
		expected []string
		offset   int
	}{
		{
			name: "dangling edge text", grammar: token.GrammarFlowchart,
			src:  "graph TD; A--",
			code: diag.SynUnexpectedEOF, token: "EOF", expected: []string{"'EDGE_TEXT'"}, offset: 13,
		},
		{
			name: "link without target", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA-->",
			code: diag.SynUnexpectedEOF, token: "EOF", expected: []string{"'PIPE'", "'NODE_STRING'", "'NUM'"}, offset: 13,
		},
		{
			name: "empty shape", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA[]",
			code: diag.SynExpectText, token: "SQE", expected: []string{"'TEXT'", "'STR'"}, offset: 11,
		},
		{
			name: "parenthesis in rect label", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA[foo (bar)] --> B",
			code: diag.SynUnclosedShape, token: "PS", expected: []string{"'SQE'"}, offset: 15,
		},
		{
			name: "brace in rect label", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA[foo {bar}] --> B",
			code: diag.SynUnclosedShape, token: "DIAMOND_START", expected: []string{"'SQE'"}, offset: 15,
		},
		{
			name: "bracket in round label", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA(foo [bar]) --> B",
			code: diag.SynUnclosedShape, token: "SQS", expected: []string{"'PE'"}, offset: 15,
		},
		{
			name: "parenthesis in rhombus label", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA{foo (bar)} --> B",
			code: diag.SynUnclosedShape, token: "PS", expected: []string{"'DIAMOND_STOP'"}, offset: 15,
		},
		{
			name: "pipe in rect label", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA[foo | bar] --> B",
			code: diag.SynUnclosedShape, token: "PIPE", expected: []string{"'SQE'"}, offset: 15,
		},
		{
			name: "quote in rect label", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA[foo \"bar\"] --> B",
			code: diag.SynUnclosedShape, token: "STR", expected: []string{"'SQE'"}, offset: 15,
		},
		{
			name: "closing parenthesis in rect label", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA[foo) bar] --> B",
			code: diag.SynUnclosedShape, token: "PE", expected: []string{"'SQE'"}, offset: 14,
		},
		{
			name: "closing brace in rect label", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA[foo} bar] --> B",
			code: diag.SynUnclosedShape, token: "DIAMOND_STOP", expected: []string{"'SQE'"}, offset: 14,
		},
		{
			name: "closing bracket in round label", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA(foo ] bar) --> B",
			code: diag.SynUnclosedShape, token: "SQE", expected: []string{"'PE'"}, offset: 15,
		},
		{
			name: "nested rect label", grammar: token.GrammarFlowchart,
			src:  "graph TD\nA[foo [bar]] --> B",
			code: diag.SynUnclosedShape, token: "SQS", expected: []string{"'SQE'"}, offset: 15,
		},
		{
			name: "unclosed subgraph", grammar: token.GrammarFlowchart,
			src:  "graph TD\nsubgraph one\nA-->B\n",
			code: diag.SynUnclosedBlock, token: "EOF", expected: []string{"'end'"}, offset: 28,
		},
		{
			name: "stray end", grammar: token.GrammarFlowchart,
			src:  "graph TD\nend",
			code: diag.SynUnbalancedEnd, token: "end", expected: []string{"'NODE_STRING'", "'NUM'", "'subgraph'"}, offset: 9,
		},
		{
			name: "bad header", grammar: token.GrammarFlowchart,
			src:  "graphx TD",
			code: diag.SynInvalidHeader, token: "NODE_STRING", expected: []string{"'GRAPH'"}, offset: 0,
		},
		{
			name: "message without arrow", grammar: token.GrammarSequence,
			src:  "sequenceDiagram\nAlice",
			code: diag.SynExpectArrow, token: "EOF", expected: quoteAll(seqArrows), offset: 21,
		},
		{
			name: "message without text", grammar: token.GrammarSequence,
			src:  "sequenceDiagram\nA->>B",
			code: diag.SynExpectColon, token: "EOF", expected: []string{"'TXT'"}, offset: 21,
		},
		{
			name: "unclosed loop", grammar: token.GrammarSequence,
			src:  "sequenceDiagram\nloop x\nA->>B: y",
			code: diag.SynUnclosedBlock, token: "EOF", expected: []string{"'end'"}, offset: 32,
		},
		{
			name: "else outside alt", grammar: token.GrammarSequence,
			src:  "sequenceDiagram\nelse",
			code: diag.SynUnexpectedToken, token: "else", expected: []string{"'end'"}, offset: 16,
		},
		{
			name: "unclosed class body", grammar: token.GrammarClass,
			src:  "classDiagram\nclass A {\n+x",
			code: diag.SynUnclosedBlock, token: "EOF", expected: []string{"'STRUCT_STOP'"}, offset: 25,
		},
		{
			name: "bare class name", grammar: token.GrammarClass,
			src:  "classDiagram\nA",
			code: diag.SynExpectArrow, token: "EOF", expected: []string{"'LABEL'", "'STR'", "'RELATION'"}, offset: 14,
		},
		{
			name: "unknown state kind", grammar: token.GrammarState,
			src:  "stateDiagram\nstate X <<bogus>>",
			code: diag.SynUnexpectedToken, token: "ANNOTATION", expected: []string{"'FORK'", "'JOIN'", "'CHOICE'"}, offset: 21,
		},
		{
			name: "transition without target", grammar: token.GrammarState,
			src:  "stateDiagram\nA -->",
			code: diag.SynExpectIdentifier, token: "EOF", expected: []string{"'ID'", "'EDGE_STATE'"}, offset: 18,
		},
		{
			name: "relationship without label", grammar: token.GrammarER,
			src:  "erDiagram\nA ||--o{ B",
			code: diag.SynUnexpectedEOF, token: "EOF", expected: []string{"'COLON'"}, offset: 20,
		},
		{
			name: "pie value not a number", grammar: token.GrammarPie,
			src:  "pie\n\"Dogs\" : many",
			code: diag.SynExpectNumber, token: "NODE_STRING", expected: []string{"'NUMBER_PIE'"}, offset: 13,
		},
		{
			name: "gantt task without data", grammar: token.GrammarGantt,
			src:  "gantt\nTask without colon",
			code: diag.SynExpectColon, token: "EOF", expected: []string{"'taskData'"}, offset: 24,
		},
		{
			name: "journey section without name", grammar: token.GrammarJourney,
			src:  "journey\nsection",
			code: diag.SynExpectText, token: "EOF", expected: []string{"'taskTxt'"}, offset: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, bag, _ := parseSource(t, tt.grammar, tt.src)
			if !res.Failed {
				t.Fatalf("expected failure for %q", tt.src)
			}
			if bag.Len() != 1 {
				t.Fatalf("expected exactly one diagnostic, got %s", diagnosticsSummary(bag))
			}
			d, _ := bag.First()
			if d.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", d.Code.ID(), tt.code.ID(), d.Message)
			}
			if d.Token != tt.token {
				t.Errorf("token = %q, want %q", d.Token, tt.token)
			}
			if strings.Join(d.Expected, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("expected = %v, want %v", d.Expected, tt.expected)
			}
			if int(d.Primary.Start) != tt.offset {
				t.Errorf("offset = %d, want %d", d.Primary.Start, tt.offset)
			}
		})
	}
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "'" + n + "'"
	}
	return out
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		code   diag.Code
		offset int
	}{
		{"unrecognized text", "graph TD\nA-->B\n@@@", diag.LexUnrecognizedText, 15},
		{"unterminated string", "graph TD\nA[\"oops]", diag.LexUnterminatedString, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, bag, _ := parseSource(t, token.GrammarFlowchart, tt.src)
			if !res.Failed {
				t.Fatalf("expected failure")
			}
			d, ok := bag.First()
			if !ok {
				t.Fatalf("no diagnostics")
			}
			if d.Code != tt.code {
				t.Errorf("code = %s, want %s", d.Code.ID(), tt.code.ID())
			}
			if d.Token != "" || len(d.Expected) != 0 {
				t.Errorf("lexical error carries token %q and expected %v", d.Token, d.Expected)
			}
			if int(d.Primary.Start) != tt.offset {
				t.Errorf("offset = %d, want %d", d.Primary.Start, tt.offset)
			}
		})
	}
}

func TestFirstErrorStopsParsing(t *testing.T) {
	_, bag, _ := parseSource(t, token.GrammarFlowchart, "graph TD\nA-->\nB-->\nC-->")
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %s", diagnosticsSummary(bag))
	}
	d, _ := bag.First()
	if d.Token != "NEWLINE" {
		t.Errorf("token = %q, want NEWLINE", d.Token)
	}
}

func TestFlowchartTree(t *testing.T) {
	res := parseValid(t, token.GrammarFlowchart, strings.Join([]string{
		"flowchart LR",
		"  A[Start] & B --> C -- go --> D",
		"  subgraph s1 [Group]",
		"    E((round))",
		"  end",
	}, "\n"))
	d := res.Diagram

	if d.Type != "flowchart" || d.Direction != "LR" {
		t.Fatalf("header = %q %q", d.Type, d.Direction)
	}
	if got := d.Count(ast.StmtEdge); got != 3 {
		t.Errorf("edges = %d, want 3", got)
	}
	if got := d.Count(ast.StmtSubgraph); got != 1 {
		t.Errorf("subgraphs = %d, want 1", got)
	}

	var shapes, labels []string
	d.Walk(func(_ ast.StmtID, s *ast.Stmt, depth int) {
		switch s.Kind {
		case ast.StmtVertex:
			if s.Value != "" {
				shapes = append(shapes, s.Name+":"+s.Value)
			}
			if s.Name == "E" && depth != 1 {
				t.Errorf("E depth = %d, want 1", depth)
			}
		case ast.StmtEdge:
			if l := d.Label(s.Label); l != nil {
				labels = append(labels, s.Name+"->"+s.Target+":"+l.Raw)
			}
		case ast.StmtSubgraph:
			if s.Name != "s1" || d.Label(s.Label).Raw != "Group" {
				t.Errorf("subgraph = %q %q", s.Name, d.Label(s.Label).Raw)
			}
		}
	})
	if strings.Join(shapes, ",") != "A:rect,E:circle" {
		t.Errorf("shapes = %v", shapes)
	}
	if strings.Join(labels, ",") != "C->D:go" {
		t.Errorf("edge labels = %v", labels)
	}
}

func TestSequenceTree(t *testing.T) {
	res := parseValid(t, token.GrammarSequence, strings.Join([]string{
		"sequenceDiagram",
		"  participant A as Alice",
		"  A->>+B: Hello",
		"  alt ok",
		"    A->>B: yes",
		"  else no",
		"    A->>B: no",
		"  end",
	}, "\n"))
	d := res.Diagram

	if got := d.Count(ast.StmtMessage); got != 3 {
		t.Errorf("messages = %d, want 3", got)
	}
	if got := d.Count(ast.StmtBranch); got != 1 {
		t.Errorf("branches = %d, want 1", got)
	}
	first := d.Stmt(d.Root[0])
	if first.Kind != ast.StmtParticipant || first.Name != "A" || d.Label(first.Label).Raw != "Alice" {
		t.Errorf("participant = %+v", first)
	}
	msg := d.Stmt(d.Root[1])
	if msg.Op != "->>" || msg.Value != "+" || msg.Target != "B" {
		t.Errorf("message = %+v", msg)
	}
	block := d.Stmt(d.Root[2])
	if block.Kind != ast.StmtBlock || block.Op != "alt" || len(block.Children) != 3 {
		t.Errorf("block = %+v", block)
	}
}

func TestJourneyScores(t *testing.T) {
	res := parseValid(t, token.GrammarJourney, "journey\nsection Day\nGo upstairs: 3: Me, Cat")
	d := res.Diagram
	section := d.Stmt(d.Root[0])
	if section.Kind != ast.StmtSection || len(section.Children) != 1 {
		t.Fatalf("section = %+v", section)
	}
	task := d.Stmt(section.Children[0])
	if task.Value != "3" || strings.Join(task.Args, ",") != "Me,Cat" {
		t.Errorf("task = %q %v", task.Value, task.Args)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		text string
		want token.Grammar
		ok   bool
	}{
		{"graph TD; A-->B", token.GrammarFlowchart, true},
		{"\n\n  flowchart-elk LR", token.GrammarFlowchart, true},
		{"sequenceDiagram\nA->>B: hi", token.GrammarSequence, true},
		{"classDiagram-v2", token.GrammarClass, true},
		{"stateDiagram", token.GrammarState, true},
		{"erDiagram", token.GrammarER, true},
		{"pie title x", token.GrammarPie, true},
		{"gantt", token.GrammarGantt, true},
		{"journey", token.GrammarJourney, true},
		{"", token.GrammarUnknown, false},
		{"hello world", token.GrammarUnknown, false},
	}
	for _, tt := range tests {
		got, ok := Detect(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Detect(%q) = %s, %v; want %s, %v", tt.text, got, ok, tt.want, tt.ok)
		}
		if ok && !Supports(got) {
			t.Errorf("no parser registered for %s", got)
		}
	}
}
