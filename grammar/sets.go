package grammar

import "github.com/sablefin/lalrgen/internal/util"

// ComputeSets runs the three fixed-point loops of spec §4.2 — nullable,
// FIRST, then FOLLOW — over an augmented grammar, storing the results on
// each nonterminal. It must be called on the Grammar returned by Augment,
// since FOLLOW($accept's start symbol) seeds from the accept production's
// $end (spec §4.1.6, §4.2 "Invariant seed").
//
// Calling ComputeSets twice on the same Grammar is safe and idempotent
// (spec §8 invariant 4): the second call recomputes the same fixed point.
func ComputeSets(g *Grammar) {
	if !g.augmented {
		panic("grammar: ComputeSets called on a non-augmented grammar")
	}

	computeNullable(g)
	computeFirst(g)
	computeFollow(g)
}

func computeNullable(g *Grammar) {
	changed := true
	for changed {
		changed = false
		for _, a := range g.nonterminalOrder {
			info := g.nonterminals[a]
			if info.nullable {
				continue
			}
			for _, pid := range info.productions {
				p := g.Production(pid)
				if g.NullableSeq(p.RHS) {
					info.nullable = true
					changed = true
					break
				}
			}
		}
	}
}

func computeFirst(g *Grammar) {
	for _, a := range g.nonterminalOrder {
		g.nonterminals[a].first = util.NewKeySet[SymbolID]()
	}

	changed := true
	for changed {
		changed = false
		for _, a := range g.nonterminalOrder {
			info := g.nonterminals[a]
			before := info.first.Len()

			for _, pid := range info.productions {
				p := g.Production(pid)
				info.first.AddAll(g.FirstSeq(p.RHS))
			}

			if info.first.Len() != before {
				changed = true
			}
		}
	}
}

func computeFollow(g *Grammar) {
	for _, a := range g.nonterminalOrder {
		g.nonterminals[a].follow = util.NewKeySet[SymbolID]()
	}

	// invariant seed: FOLLOW($accept's rhs start symbol) ⊇ {$end}, carried
	// by the augmented production $accept -> S $end itself below, but also
	// stated explicitly per spec §4.1.6 / §4.2.
	g.nonterminals[g.start].follow.Add(SymEnd)

	changed := true
	for changed {
		changed = false

		for _, p := range g.Productions {
			for i, xi := range p.RHS {
				if g.IsTerminal(xi) {
					continue
				}
				info := g.nonterminals[xi]
				before := info.follow.Len()

				suffix := p.RHS[i+1:]
				info.follow.AddAll(g.FirstSeq(suffix))
				if g.NullableSeq(suffix) {
					info.follow.AddAll(g.nonterminals[p.LHS].follow)
				}

				if info.follow.Len() != before {
					changed = true
				}
			}
		}
	}
}
