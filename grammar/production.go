package grammar

import (
	"fmt"
	"strings"
)

// ProdID identifies a production. Production ids and symbol ids are
// disjoint numbering spaces (spec §3): id 0 is reserved for the synthetic
// accept production $accept -> S $end added by Augment.
type ProdID int

// Production is one rhs alternative of a nonterminal: A -> X1 X2 ... Xn.
// Productions are immutable after grammar loading (spec §3).
type Production struct {
	ID ProdID

	LHS SymbolID
	RHS []SymbolID

	// Precedence is the numeric operator-table level this production
	// inherits for conflict resolution, or 0 if unspecified (spec §4.1.4).
	Precedence int

	// Action is the (possibly rewritten) semantic action body attached to
	// this production. The core never executes it; see ActionGroup.
	Action string

	// Aliases maps each rhs alias to its 1-based position in RHS: bracketed
	// names (`Sym[name]`) plus the symbol-name forms splitRHS adds (name for
	// the first occurrence, then name1, name2, ...), so a downstream code
	// emitter does not need to
	// re-parse the original rhs text (SPEC_FULL.md §4.1b).
	Aliases map[string]int
}

// Len returns len(p.RHS).
func (p Production) Len() int {
	return len(p.RHS)
}

// Epsilon returns whether p has an empty right-hand side.
func (p Production) Epsilon() bool {
	return len(p.RHS) == 0
}

// String renders the production using interned names from t, e.g.
// "E -> E + E".
func (p Production) String(t *SymbolTable) string {
	var sb strings.Builder
	sb.WriteString(t.Name(p.LHS))
	sb.WriteString(" ->")
	if len(p.RHS) == 0 {
		sb.WriteString(" ε")
	}
	for _, sym := range p.RHS {
		sb.WriteByte(' ')
		sb.WriteString(t.Name(sym))
	}
	return sb.String()
}

// Assoc is the associativity of an operator-precedence entry.
type Assoc int

const (
	// AssocNone marks a terminal with no declared associativity.
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
	AssocNonAssoc
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	case AssocNonAssoc:
		return "nonassoc"
	default:
		return "none"
	}
}

// ParseAssoc converts a textual associativity ("left", "right", "nonassoc")
// into an Assoc, returning an error for anything else.
func ParseAssoc(s string) (Assoc, error) {
	switch s {
	case "left":
		return AssocLeft, nil
	case "right":
		return AssocRight, nil
	case "nonassoc":
		return AssocNonAssoc, nil
	default:
		return AssocNone, fmt.Errorf("grammar: unrecognized associativity %q", s)
	}
}

// OperatorEntry is one terminal's entry in the precedence table (spec §3):
// a level (higher = tighter binding) and an associativity.
type OperatorEntry struct {
	Level int
	Assoc Assoc
}
