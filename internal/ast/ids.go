package ast

type (
	StmtID  uint32
	LabelID uint32
)

const (
	NoStmtID  StmtID  = 0
	NoLabelID LabelID = 0
)

func (id StmtID) IsValid() bool  { return id != NoStmtID }
func (id LabelID) IsValid() bool { return id != NoLabelID }
