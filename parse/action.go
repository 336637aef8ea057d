package parse

import (
	"fmt"

	"github.com/sablefin/lalrgen/grammar"
)

// ActionType tags the kind of entry the parse table holds at a cell, per
// spec §3 "Action": a tagged value, never more than one of these per
// (state, terminal) unless NoDefaultResolve retains alternatives.
type ActionType int

const (
	// ActionError marks the absence of an entry: a parse error if reached.
	ActionError ActionType = iota
	ActionShift
	ActionReduce
	ActionAccept
	ActionGoto
)

func (t ActionType) String() string {
	switch t {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	case ActionGoto:
		return "goto"
	default:
		return "error"
	}
}

// Action is one cell of the parse table. State is meaningful for Shift and
// Goto; Production is meaningful for Reduce.
type Action struct {
	Type       ActionType
	State      int
	Production grammar.ProdID
}

func (a Action) String() string {
	switch a.Type {
	case ActionShift:
		return fmt.Sprintf("shift %d", a.State)
	case ActionGoto:
		return fmt.Sprintf("goto %d", a.State)
	case ActionReduce:
		return fmt.Sprintf("reduce %d", a.Production)
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}
