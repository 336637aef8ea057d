// Package automaton builds the canonical LALR(1) collection of LR(0) item
// sets (states) for a grammar: C3 (Item & State Model) and C4 (LR Automaton
// Builder) of the generator pipeline. Lookaheads are assigned later, against
// the FOLLOW-set approximation spec §4.5 specifies, so items here carry no
// lookahead of their own — see parse.Lookaheads.
package automaton

import (
	"fmt"

	"github.com/sablefin/lalrgen/grammar"
)

// Item is an LR(0) item: a production with a dot marking how much of its
// rhs has been recognized. Two items are equal — and therefore the same
// item for state-identity purposes (spec §3 "Item") — iff they share
// Production and Dot.
type Item struct {
	Production grammar.ProdID
	Dot        int
}

// Key returns the canonical "production.dot" string used both as a map key
// within a State and as one token of a State's identity string.
func (it Item) Key() string {
	return fmt.Sprintf("%d.%d", it.Production, it.Dot)
}

// NextSymbol returns the symbol immediately after the dot and true, or the
// zero SymbolID and false if the dot is at the end of the rhs (a reduction
// item).
func (it Item) NextSymbol(g *grammar.Grammar) (grammar.SymbolID, bool) {
	p := g.Production(it.Production)
	if it.Dot >= len(p.RHS) {
		return 0, false
	}
	return p.RHS[it.Dot], true
}

// IsReduction returns whether the dot is at the end of the rhs.
func (it Item) IsReduction(g *grammar.Grammar) bool {
	_, ok := it.NextSymbol(g)
	return !ok
}

// Advance returns the item with the dot moved one position to the right.
// It does not check bounds; callers only advance over a known next symbol.
func (it Item) Advance() Item {
	return Item{Production: it.Production, Dot: it.Dot + 1}
}

// String renders the item as "A -> α . β", e.g. "E -> E . + E".
func (it Item) String(g *grammar.Grammar) string {
	p := g.Production(it.Production)

	out := g.Symbols.Name(p.LHS) + " ->"
	for i, sym := range p.RHS {
		if i == it.Dot {
			out += " ."
		}
		out += " " + g.Symbols.Name(sym)
	}
	if it.Dot == len(p.RHS) {
		out += " ."
	}
	return out
}
