package parse

import (
	"sort"

	"github.com/sablefin/lalrgen/automaton"
	"github.com/sablefin/lalrgen/grammar"
)

// Lookaheads returns the lookahead terminals a reduction item contributes to
// a state's row, in ascending id order so that table construction and its
// Resolutions log are reproducible, per the FOLLOW-set approximation of
// spec §4.5: every
// reduction item [A -> α.] takes FOLLOW(A), regardless of which state it
// appears in or how it was reached. This is deliberately coarser than true
// per-channel LALR(1) propagation, which tracks lookaheads per transition
// edge instead of per nonterminal.
//
// When onDemand is false and the state has no conflicts, ReduceTerminals uses
// every terminal instead of this narrower set (spec §4.7 step 3); Lookaheads
// only ever returns the FOLLOW-set answer.
func Lookaheads(g *grammar.Grammar, it automaton.Item) []grammar.SymbolID {
	p := g.Production(it.Production)
	terms := g.Follow(p.LHS).Elements()
	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })
	return terms
}

// ReduceTerminals decides which terminals a reduction item should be
// written to in state s's row, implementing the branch spec §4.7 step 3
// describes: the FOLLOW set whenever on-demand lookahead is requested or the
// state already has a conflict to arbitrate, otherwise every terminal (so
// single-reduction states compress to a default action regardless of which
// terminal arrives).
func ReduceTerminals(g *grammar.Grammar, it automaton.Item, s *automaton.State, onDemand bool) []grammar.SymbolID {
	if onDemand || s.HasConflicts {
		return Lookaheads(g, it)
	}
	return g.Terminals()
}
