package parse

import "github.com/sablefin/lalrgen/grammar"

// ResolutionKind identifies which of the two conflict shapes spec §4.6
// arbitrates.
type ResolutionKind int

const (
	ShiftReduce ResolutionKind = iota
	ReduceReduce
)

func (k ResolutionKind) String() string {
	if k == ReduceReduce {
		return "reduce/reduce"
	}
	return "shift/reduce"
}

// Resolution is one entry of the per-cell audit log spec §4.6 calls
// "resolutions": which state and terminal the conflict occurred at, which
// action won, which lost, and whether the decision fell back to the
// "by default" rule (no operator-table entry to arbitrate with).
type Resolution struct {
	State     int
	Terminal  grammar.SymbolID
	Kind      ResolutionKind
	Chosen    Action
	Discarded Action
	ByDefault bool
}

// resolveConflict arbitrates between the action already occupying a cell and
// a newly proposed one for the same (state, terminal), per the table in spec
// §4.6. handled is false for action-pairs the spec's table does not cover
// (e.g. a clash involving Accept), in which case the existing cell is left
// untouched. ambiguous is true only when noDefaultResolve requests that both
// actions survive as alternatives on the cell.
func resolveConflict(g *grammar.Grammar, state int, term grammar.SymbolID, existing, candidate Action, noDefaultResolve bool) (winner Action, res Resolution, ambiguous bool, handled bool) {
	if existing.Type == ActionReduce && candidate.Type == ActionReduce {
		winner, res := resolveReduceReduce(state, term, existing, candidate)
		return winner, res, noDefaultResolve, true
	}

	var shift, reduce Action
	switch {
	case existing.Type == ActionShift && candidate.Type == ActionReduce:
		shift, reduce = existing, candidate
	case existing.Type == ActionReduce && candidate.Type == ActionShift:
		shift, reduce = candidate, existing
	default:
		return existing, Resolution{}, false, false
	}

	winner, res, ambiguous = resolveShiftReduce(g, state, term, shift, reduce, noDefaultResolve)
	return winner, res, ambiguous, true
}

// resolveShiftReduce implements the shift/reduce half of spec §4.6's table.
func resolveShiftReduce(g *grammar.Grammar, state int, term grammar.SymbolID, shift, reduce Action, noDefaultResolve bool) (Action, Resolution, bool) {
	p := g.Production(reduce.Production)
	op, hasOp := g.Operators[term]

	res := Resolution{State: state, Terminal: term, Kind: ShiftReduce}

	if p.Precedence == 0 || !hasOp {
		res.Chosen, res.Discarded, res.ByDefault = shift, reduce, true
		return shift, res, noDefaultResolve
	}

	switch {
	case p.Precedence < op.Level:
		res.Chosen, res.Discarded = shift, reduce
		return shift, res, false
	case p.Precedence > op.Level:
		res.Chosen, res.Discarded = reduce, shift
		return reduce, res, false
	default:
		switch op.Assoc {
		case grammar.AssocLeft:
			res.Chosen, res.Discarded = reduce, shift
			return reduce, res, false
		case grammar.AssocRight:
			res.Chosen, res.Discarded = shift, reduce
			return shift, res, false
		default: // nonassoc: the cell becomes an error entry
			res.Chosen, res.Discarded = Action{Type: ActionError}, shift
			return Action{Type: ActionError}, res, false
		}
	}
}

// resolveReduceReduce implements the reduce/reduce half of spec §4.6's
// table: the lower-numbered production always wins, and this is always
// counted as a by-default resolution.
func resolveReduceReduce(state int, term grammar.SymbolID, a, b Action) (Action, Resolution) {
	winner, loser := a, b
	if b.Production < a.Production {
		winner, loser = b, a
	}
	return winner, Resolution{
		State: state, Terminal: term, Kind: ReduceReduce,
		Chosen: winner, Discarded: loser, ByDefault: true,
	}
}
