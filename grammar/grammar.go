package grammar

import (
	"fmt"

	"github.com/sablefin/lalrgen/internal/util"
)

// nonterminalInfo holds the C2-computed sets for a single nonterminal,
// alongside the list of its own productions in declaration order.
type nonterminalInfo struct {
	productions []ProdID
	nullable    bool
	first       util.KeySet[SymbolID]
	follow      util.KeySet[SymbolID]
}

// Grammar is the normalized, interned grammar produced by C1 and enriched by
// C2. All data is read-only once Load (and, for the augmented copy, Augment)
// have returned; see spec §3 "Lifecycle".
type Grammar struct {
	Symbols *SymbolTable

	// Productions is indexed by ProdID. Productions[0] is only populated
	// after Augment.
	Productions []Production

	// nonterminalOrder lists nonterminal ids in first-seen (declaration)
	// order; iteration must follow it for deterministic generation (spec §5).
	nonterminalOrder []SymbolID
	nonterminals     map[SymbolID]*nonterminalInfo

	// terminalOrder lists terminal ids in first-seen order, not including
	// the reserved $end/error placement quirks beyond their natural id.
	terminalOrder []SymbolID

	Operators map[SymbolID]OperatorEntry

	start SymbolID

	augmented bool
}

func newGrammar() *Grammar {
	return &Grammar{
		Symbols:      NewSymbolTable(),
		nonterminals: make(map[SymbolID]*nonterminalInfo),
		Operators:    make(map[SymbolID]OperatorEntry),
	}
}

// StartSymbol returns the id of the grammar's (non-augmented) start
// nonterminal.
func (g *Grammar) StartSymbol() SymbolID {
	return g.start
}

// Augmented returns whether this Grammar has had Augment applied to it.
func (g *Grammar) Augmented() bool {
	return g.augmented
}

// IsTerminal returns whether id names a terminal symbol.
func (g *Grammar) IsTerminal(id SymbolID) bool {
	return g.Symbols.IsTerminal(id)
}

// Terminals returns every terminal id in first-seen order, not including
// $accept (which is never a terminal).
func (g *Grammar) Terminals() []SymbolID {
	out := make([]SymbolID, len(g.terminalOrder))
	copy(out, g.terminalOrder)
	return out
}

// Nonterminals returns every nonterminal id in first-seen (declaration)
// order.
func (g *Grammar) Nonterminals() []SymbolID {
	out := make([]SymbolID, len(g.nonterminalOrder))
	copy(out, g.nonterminalOrder)
	return out
}

// ProductionsFor returns the ids of A's productions, in declaration order.
func (g *Grammar) ProductionsFor(a SymbolID) []ProdID {
	info, ok := g.nonterminals[a]
	if !ok {
		return nil
	}
	out := make([]ProdID, len(info.productions))
	copy(out, info.productions)
	return out
}

// Production returns the production with the given id. It panics if id is
// out of range.
func (g *Grammar) Production(id ProdID) Production {
	if int(id) < 0 || int(id) >= len(g.Productions) {
		panic(fmt.Sprintf("grammar: production id %d out of range", id))
	}
	return g.Productions[id]
}

// ProductionTable returns the runtime-facing (lhs, rhsLen) pairs indexed by
// production id, as described in spec §3 "Production".
func (g *Grammar) ProductionTable() [][2]int {
	out := make([][2]int, len(g.Productions))
	for i, p := range g.Productions {
		out[i] = [2]int{int(p.LHS), len(p.RHS)}
	}
	return out
}

// Nullable returns whether symbol id is nullable. Terminals are never
// nullable.
func (g *Grammar) Nullable(id SymbolID) bool {
	if g.IsTerminal(id) {
		return false
	}
	info, ok := g.nonterminals[id]
	return ok && info.nullable
}

// NullableSeq returns whether the symbol sequence seq derives ε.
func (g *Grammar) NullableSeq(seq []SymbolID) bool {
	for _, s := range seq {
		if !g.Nullable(s) {
			return false
		}
	}
	return true
}

// First returns the FIRST set of a single symbol.
func (g *Grammar) First(id SymbolID) util.KeySet[SymbolID] {
	if g.IsTerminal(id) {
		return util.KeySetOf([]SymbolID{id})
	}
	info, ok := g.nonterminals[id]
	if !ok {
		return util.NewKeySet[SymbolID]()
	}
	return info.first.Copy().(util.KeySet[SymbolID])
}

// FirstSeq returns FIRST(X1...Xn) per spec §4.2: FIRST(X1), plus FIRST(X2) if
// X1 is nullable, and so on through the nullable prefix.
func (g *Grammar) FirstSeq(seq []SymbolID) util.KeySet[SymbolID] {
	out := util.NewKeySet[SymbolID]()
	for _, s := range seq {
		out.AddAll(g.First(s))
		if !g.Nullable(s) {
			break
		}
	}
	return out
}

// Follow returns the FOLLOW set of nonterminal a. It returns an empty set
// for a terminal or an unknown id.
func (g *Grammar) Follow(a SymbolID) util.KeySet[SymbolID] {
	info, ok := g.nonterminals[a]
	if !ok {
		return util.NewKeySet[SymbolID]()
	}
	return info.follow.Copy().(util.KeySet[SymbolID])
}
