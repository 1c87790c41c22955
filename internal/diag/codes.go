package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnrecognizedText   Code = 1001
	LexUnterminatedString Code = 1002
	LexUnterminatedText   Code = 1003

	// Синтаксические
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnexpectedEOF     Code = 2002
	SynUnclosedBlock     Code = 2003
	SynUnbalancedEnd     Code = 2004
	SynExpectDirection   Code = 2005
	SynExpectText        Code = 2006
	SynExpectNumber      Code = 2007
	SynExpectIdentifier  Code = 2008
	SynExpectArrow       Code = 2009
	SynExpectColon       Code = 2010
	SynExpectSeparator   Code = 2011
	SynReservedWord      Code = 2012
	SynInvalidHeader     Code = 2013
	SynEmptyLabel        Code = 2014
	SynUnclosedShape     Code = 2015
	SynUnclosedEdgeLabel Code = 2016

	// Preprocessing (frontmatter, directives, detection)
	PreInfo              Code = 3000
	PreUnknownDiagram    Code = 3001
	PreBadFrontmatter    Code = 3002
	PreBadDirective      Code = 3003
	PreUnclosedDirective Code = 3004

	// Ошибки I/O
	IOLoadFileError Code = 4001
	IOInputTooLarge Code = 4002

	// Sanitizer / runtime
	RtInfo             Code = 5000
	RtSanitizerUnbound Code = 5001
	RtSanitizerFailed  Code = 5002

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnrecognizedText:   "Unrecognized text",
	LexUnterminatedString: "Unterminated string",
	LexUnterminatedText:   "Unterminated text",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynUnexpectedEOF:      "Unexpected end of input",
	SynUnclosedBlock:      "Block is not closed with 'end'",
	SynUnbalancedEnd:      "'end' without an open block",
	SynExpectDirection:    "Expect direction",
	SynExpectText:         "Expect text",
	SynExpectNumber:       "Expect number",
	SynExpectIdentifier:   "Expect identifier",
	SynExpectArrow:        "Expect arrow",
	SynExpectColon:        "Expect colon",
	SynExpectSeparator:    "Expect newline or semicolon",
	SynReservedWord:       "Reserved word used as identifier",
	SynInvalidHeader:      "Invalid diagram header",
	SynEmptyLabel:         "Empty label",
	SynUnclosedShape:      "Unclosed node shape",
	SynUnclosedEdgeLabel:  "Unclosed edge label",
	PreInfo:               "Preprocessing information",
	PreUnknownDiagram:     "No diagram type detected",
	PreBadFrontmatter:     "Invalid frontmatter",
	PreBadDirective:       "Invalid directive",
	PreUnclosedDirective:  "Unclosed directive",
	IOLoadFileError:       "I/O error",
	IOInputTooLarge:       "Input too large",
	RtInfo:                "Runtime information",
	RtSanitizerUnbound:    "Sanitizer is not bound to a document",
	RtSanitizerFailed:     "Sanitizer failed",
	ObsInfo:               "Observability information",
	ObsTimings:            "Timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PRE%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("RT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
