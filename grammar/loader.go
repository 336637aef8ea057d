package grammar

import "fmt"

// Load normalizes spec into a Grammar: it interns every symbol in
// declaration order, builds the production table, computes each
// production's precedence, and records alias positions for action
// rewriting. It does not augment the grammar or compute nullable/FIRST/
// FOLLOW; call Augment and ComputeSets for that (spec §4.1, §4.2).
//
// trace, if non-nil, receives one line per non-fatal warning (spec §4.1
// "Errors", SPEC_FULL.md §4.1a): a declared token with no matching rhs use,
// or a discovered terminal missing from an explicit Tokens list.
func Load(spec Spec, trace func(string)) (*Grammar, error) {
	if len(spec.Rules) == 0 {
		return nil, fmt.Errorf("grammar: empty grammar: no rules given")
	}

	g := newGrammar()

	ntNames := make(map[string]bool, len(spec.Rules))
	for _, r := range spec.Rules {
		ntNames[r.NonTerminal] = true
	}

	startName := spec.Start
	if startName == "" {
		startName = spec.Rules[0].NonTerminal
	}
	if !ntNames[startName] {
		return nil, fmt.Errorf("grammar: declared start symbol %q is not a nonterminal in this grammar", startName)
	}

	// 1. intern nonterminals in declaration order, so every rule's lhs
	// exists before any rhs reference to it is classified.
	for _, r := range spec.Rules {
		g.Symbols.Intern(r.NonTerminal, false)
		if _, ok := g.nonterminals[mustID(g, r.NonTerminal)]; !ok {
			id := mustID(g, r.NonTerminal)
			g.nonterminals[id] = &nonterminalInfo{}
			g.nonterminalOrder = append(g.nonterminalOrder, id)
		}
	}

	// 2. intern declared tokens next (declarations precede rules, as in a
	// conventional yacc-family "tokens" section).
	declared := make(map[string]bool, len(spec.Tokens))
	for _, tok := range spec.Tokens {
		declared[tok] = true
		if !ntNames[tok] {
			g.internTerminal(tok)
		}
	}

	// 3. process the operator precedence table; level 1 is the lowest
	// (spec §3, §6: "ordered list, lowest level first").
	for level, decl := range spec.Operators {
		assoc, err := ParseAssoc(decl.Assoc)
		if err != nil {
			return nil, fmt.Errorf("grammar: operator declaration %d: %w", level+1, err)
		}
		for _, sym := range decl.Symbols {
			id := g.internTerminal(sym)
			g.Operators[id] = OperatorEntry{Level: level + 1, Assoc: assoc}
		}
	}

	// 4. build productions, interning any remaining rhs symbols as
	// terminals on first sight. Slot 0 is reserved for the synthetic
	// accept production added by Augment, so the production table stays
	// indexed directly by id (spec §3).
	g.Productions = make([]Production, 1)
	nextID := ProdID(1)
	discovered := make(map[string]bool)

	for _, r := range spec.Rules {
		lhs := mustID(g, r.NonTerminal)
		info := g.nonterminals[lhs]

		for _, alt := range r.Alts {
			aliases := make(map[string]int)
			names := splitRHS(alt.RHS, aliases)

			rhs := make([]SymbolID, len(names))
			for i, name := range names {
				var id SymbolID
				if ntNames[name] {
					id = mustID(g, name)
				} else {
					id = g.internTerminal(name)
					discovered[name] = true
				}
				rhs[i] = id
			}

			prod := Production{
				ID:      nextID,
				LHS:     lhs,
				RHS:     rhs,
				Aliases: aliases,
			}
			prod.Precedence = productionPrecedence(g, alt, rhs)
			prod.Action = rewriteAction(alt.Action, len(rhs), aliases)

			g.Productions = append(g.Productions, prod)
			info.productions = append(info.productions, nextID)
			nextID++
		}
	}

	// spec §4.1 "Errors": a declared-tokens list whose size disagrees with
	// discovered terminals is a non-fatal warning, reported per symbol
	// (SPEC_FULL.md §4.1a) rather than as one aggregate boolean.
	if len(declared) > 0 && trace != nil {
		for tok := range declared {
			if !discovered[tok] {
				trace(fmt.Sprintf("grammar: declared token %q is never used in any production", tok))
			}
		}
		for tok := range discovered {
			if !declared[tok] {
				trace(fmt.Sprintf("grammar: terminal %q is used in a production but was not in the declared token list", tok))
			}
		}
	}

	g.terminalOrder = terminalsInOrder(g)
	g.start = mustID(g, startName)

	return g, nil
}

func (g *Grammar) internTerminal(name string) SymbolID {
	return g.Symbols.Intern(name, true)
}

func mustID(g *Grammar, name string) SymbolID {
	id, ok := g.Symbols.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("grammar: internal error: symbol %q was never interned", name))
	}
	return id
}

func terminalsInOrder(g *Grammar) []SymbolID {
	var out []SymbolID
	for _, sym := range g.Symbols.All() {
		if sym.Terminal && sym.ID != SymAccept {
			out = append(out, sym.ID)
		}
	}
	return out
}

// productionPrecedence implements spec §4.1.4: an explicit {prec: op} wins;
// otherwise the production inherits the precedence of the right-most
// terminal in its rhs that appears in the operator table; otherwise 0.
func productionPrecedence(g *Grammar, alt Alt, rhs []SymbolID) int {
	if alt.Prec != "" {
		if id, ok := g.Symbols.Lookup(alt.Prec); ok {
			if entry, ok := g.Operators[id]; ok {
				return entry.Level
			}
		}
		return 0
	}

	for i := len(rhs) - 1; i >= 0; i-- {
		sym := rhs[i]
		if !g.IsTerminal(sym) {
			continue
		}
		if entry, ok := g.Operators[sym]; ok {
			return entry.Level
		}
	}

	return 0
}
