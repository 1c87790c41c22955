package token

import "sort"

// Shape is the visual form selected by a node's delimiters.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeRect
	ShapeRound
	ShapeStadium
	ShapeSubroutine
	ShapeCylinder
	ShapeCircle
	ShapeDoubleCircle
	ShapeEllipse
	ShapeOdd
	ShapeRhombus
	ShapeHexagon
	ShapeLeanRight
	ShapeLeanLeft
	ShapeTrapezoid
	ShapeInvTrapezoid
)

var shapeNames = [...]string{
	ShapeNone:         "none",
	ShapeRect:         "rect",
	ShapeRound:        "round",
	ShapeStadium:      "stadium",
	ShapeSubroutine:   "subroutine",
	ShapeCylinder:     "cylinder",
	ShapeCircle:       "circle",
	ShapeDoubleCircle: "doublecircle",
	ShapeEllipse:      "ellipse",
	ShapeOdd:          "odd",
	ShapeRhombus:      "diamond",
	ShapeHexagon:      "hexagon",
	ShapeLeanRight:    "lean_right",
	ShapeLeanLeft:     "lean_left",
	ShapeTrapezoid:    "trapezoid",
	ShapeInvTrapezoid: "inv_trapezoid",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "none"
}

// Delims pairs an opener with one of its closers.
type Delims struct {
	Open  string
	Close string
	Shape Shape
}

// shapeDelims is ordered so that longer openers, and for one opener the
// longer closers, come first.
var shapeDelims = []Delims{
	{"(((", ")))", ShapeDoubleCircle},
	{"((", "))", ShapeCircle},
	{"([", "])", ShapeStadium},
	{"(-", "-)", ShapeEllipse},
	{"(", ")", ShapeRound},
	{"[[", "]]", ShapeSubroutine},
	{"[(", ")]", ShapeCylinder},
	{"[/", "/]", ShapeLeanRight},
	{"[/", `\]`, ShapeTrapezoid},
	{`[\`, `\]`, ShapeLeanLeft},
	{`[\`, "/]", ShapeInvTrapezoid},
	{"[", "]", ShapeRect},
	{"{{", "}}", ShapeHexagon},
	{"{", "}", ShapeRhombus},
	{">", "]", ShapeOdd},
}

var shapeStartNames = map[string]string{
	"(((": "DOUBLECIRCLESTART",
	"((":  "CIRCLESTART",
	"([":  "STADIUMSTART",
	"(-":  "ELLIPSE_START",
	"(":   "PS",
	"[[":  "SUBROUTINESTART",
	"[(":  "CYLINDERSTART",
	"[/":  "TRAPSTART",
	`[\`:  "INVTRAPSTART",
	"[":   "SQS",
	"{{":  "HEXSTART",
	"{":   "DIAMOND_START",
	">":   "TAGEND",
}

var shapeEndNames = map[string]string{
	")))": "DOUBLECIRCLEEND",
	"))":  "CIRCLEEND",
	"])":  "STADIUMEND",
	"-)":  "ELLIPSE_END",
	")":   "PE",
	"]]":  "SUBROUTINEEND",
	")]":  "CYLINDEREND",
	"/]":  "TRAPEND",
	`\]`:  "INVTRAPEND",
	"]":   "SQE",
	"}}":  "HEXEND",
	"}":   "DIAMOND_STOP",
}

var (
	shapeOpeners = distinct(func(d Delims) string { return d.Open })
	shapeClosers = distinct(func(d Delims) string { return d.Close })
)

func distinct(pick func(Delims) string) []string {
	out := make([]string, 0, len(shapeDelims))
	seen := make(map[string]bool, len(shapeDelims))
	for _, d := range shapeDelims {
		s := pick(d)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// ShapeOpeners returns the distinct openers, longest first.
func ShapeOpeners() []string {
	return shapeOpeners
}

// ShapeClosers returns the distinct closers, longest first.
func ShapeClosers() []string {
	return shapeClosers
}

// ClosersFor returns every delimiter pair starting with open.
func ClosersFor(open string) []Delims {
	var out []Delims
	for _, d := range shapeDelims {
		if d.Open == open {
			out = append(out, d)
		}
	}
	return out
}

// ShapeEndName returns the terminal name of a closer.
func ShapeEndName(closer string) string {
	if name, ok := shapeEndNames[closer]; ok {
		return name
	}
	return ShapeEnd.String()
}
