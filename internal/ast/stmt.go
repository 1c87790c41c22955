package ast

import (
	"mmdcheck/internal/source"
)

type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	// общие
	StmtDirection
	StmtTitle
	StmtAccTitle
	StmtAccDescr
	StmtClassDef
	StmtClassAssign
	StmtStyle
	StmtClick
	StmtComment
	// flowchart
	StmtVertex
	StmtEdge
	StmtSubgraph
	StmtLinkStyle
	// sequence
	StmtParticipant
	StmtCreate
	StmtDestroy
	StmtMessage
	StmtNote
	StmtActivate
	StmtDeactivate
	StmtBlock
	StmtBranch
	StmtAutonumber
	StmtLinks
	StmtBox
	// class
	StmtClass
	StmtMember
	StmtRelation
	StmtAnnotation
	StmtNamespace
	// state
	StmtState
	StmtTransition
	StmtConcurrency
	StmtHide
	StmtScale
	// er
	StmtEntity
	StmtAttribute
	StmtRelationship
	// pie
	StmtShowData
	StmtSlice
	// gantt, journey
	StmtSetting
	StmtSection
	StmtTask
)

var stmtKindNames = [...]string{
	StmtInvalid:      "invalid",
	StmtDirection:    "direction",
	StmtTitle:        "title",
	StmtAccTitle:     "accTitle",
	StmtAccDescr:     "accDescr",
	StmtClassDef:     "classDef",
	StmtClassAssign:  "class",
	StmtStyle:        "style",
	StmtClick:        "click",
	StmtComment:      "comment",
	StmtVertex:       "vertex",
	StmtEdge:         "edge",
	StmtSubgraph:     "subgraph",
	StmtLinkStyle:    "linkStyle",
	StmtParticipant:  "participant",
	StmtCreate:       "create",
	StmtDestroy:      "destroy",
	StmtMessage:      "message",
	StmtNote:         "note",
	StmtActivate:     "activate",
	StmtDeactivate:   "deactivate",
	StmtBlock:        "block",
	StmtBranch:       "branch",
	StmtAutonumber:   "autonumber",
	StmtLinks:        "links",
	StmtBox:          "box",
	StmtClass:        "classDecl",
	StmtMember:       "member",
	StmtRelation:     "relation",
	StmtAnnotation:   "annotation",
	StmtNamespace:    "namespace",
	StmtState:        "state",
	StmtTransition:   "transition",
	StmtConcurrency:  "concurrency",
	StmtHide:         "hide",
	StmtScale:        "scale",
	StmtEntity:       "entity",
	StmtAttribute:    "attribute",
	StmtRelationship: "relationship",
	StmtShowData:     "showData",
	StmtSlice:        "slice",
	StmtSetting:      "setting",
	StmtSection:      "section",
	StmtTask:         "task",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) && stmtKindNames[k] != "" {
		return stmtKindNames[k]
	}
	return "unknown"
}

// Stmt is one statement of any diagram grammar. Fields are used by kind:
// edges and messages fill Name and Target, blocks keep their keyword in Op
// and nested statements in Children.
type Stmt struct {
	Kind   StmtKind
	Span   source.Span
	Name   string
	Target string
	// Op is the link, arrow or relation operator, or a block keyword.
	Op    string
	Label LabelID
	// Value holds a scalar payload: shape name, number, score, setting value.
	Value string
	// Args holds lists: css classes, cardinalities, actors, attribute keys.
	Args     []string
	Children []StmtID
}

type Stmts struct {
	Arena *Arena[Stmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena: NewArena[Stmt](capHint),
	}
}

func (s *Stmts) New(kind StmtKind, span source.Span) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind: kind,
		Span: span,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}
