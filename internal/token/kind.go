package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid marks text that no rule of the active grammar recognizes.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline is a statement separator ('\n').
	Newline
	// Semi is a statement separator (';').
	Semi

	// Word is a bare identifier-like run (node ids, actor names, types).
	Word
	// Keyword is a reserved word of the active grammar.
	Keyword
	// Str is a double-quoted string, quotes included.
	Str
	// Num is an unsigned decimal number.
	Num
	// Text is free label text scanned in raw mode.
	Text

	Colon    // :
	StyleSep // :::
	Amp      // &
	Pipe     // |
	Comma    // ,
	Plus     // +
	Minus    // -
	LBrace   // {
	RBrace   // }

	// Link is a complete flowchart edge operator (-->, -.->, ==>, ~~~, ...).
	Link
	// StartLink opens an edge with inline text (--, ==, -.).
	StartLink
	// EdgeText is the text between a StartLink and its closing Link.
	EdgeText
	// ShapeStart opens a node shape ([, ((, {{, [/, ...).
	ShapeStart
	// ShapeEnd closes a node shape.
	ShapeEnd
	// Arrow is a sequence message arrow (->>, -->>, -x, -), ...).
	Arrow
	// Relation is a class/state/er relation operator (<|--, -->, ||--o{, ...).
	Relation
	// Annotation is a <<...>> marker.
	Annotation
	// StateEdge is the start/end pseudo state [*].
	StateEdge
	// Generic is a ~T~ type parameter suffix.
	Generic
)

var kindNames = [...]string{
	Invalid:    "INVALID",
	EOF:        "EOF",
	Newline:    "NEWLINE",
	Semi:       "SEMI",
	Word:       "NODE_STRING",
	Keyword:    "KEYWORD",
	Str:        "STR",
	Num:        "NUM",
	Text:       "TEXT",
	Colon:      "COLON",
	StyleSep:   "STYLE_SEPARATOR",
	Amp:        "AMP",
	Pipe:       "PIPE",
	Comma:      "COMMA",
	Plus:       "PLUS",
	Minus:      "MINUS",
	LBrace:     "STRUCT_START",
	RBrace:     "STRUCT_STOP",
	Link:       "LINK",
	StartLink:  "START_LINK",
	EdgeText:   "EDGE_TEXT",
	ShapeStart: "SHAPE_START",
	ShapeEnd:   "SHAPE_END",
	Arrow:      "ARROW",
	Relation:   "RELATION",
	Annotation: "ANNOTATION",
	StateEdge:  "EDGE_STATE",
	Generic:    "GENERICTYPE",
}

// String returns the terminal name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Quoted returns the terminal name in the quoted form used by
// "Expecting ..." lists.
func (k Kind) Quoted() string {
	return "'" + k.String() + "'"
}
