package grammar

import "fmt"

// Augment returns a new Grammar equal to g plus the synthetic production
// $accept -> S $end (id 0), where S is g's start symbol (spec §4.1.6). It
// is an error to augment a grammar that is already augmented.
func (g *Grammar) Augment() (*Grammar, error) {
	if g.augmented {
		return nil, fmt.Errorf("grammar: already augmented")
	}

	ag := &Grammar{
		Symbols:          g.Symbols,
		Operators:        g.Operators,
		start:            g.start,
		augmented:        true,
		terminalOrder:    append([]SymbolID(nil), g.terminalOrder...),
		nonterminalOrder: append([]SymbolID{SymAccept}, g.nonterminalOrder...),
		nonterminals:     make(map[SymbolID]*nonterminalInfo, len(g.nonterminals)+1),
	}

	for id, info := range g.nonterminals {
		ag.nonterminals[id] = &nonterminalInfo{
			productions: append([]ProdID(nil), info.productions...),
		}
	}
	ag.nonterminals[SymAccept] = &nonterminalInfo{productions: []ProdID{0}}

	ag.Productions = append([]Production(nil), g.Productions...)
	ag.Productions[0] = Production{
		ID:  0,
		LHS: SymAccept,
		RHS: []SymbolID{g.start, SymEnd},
	}

	return ag, nil
}
