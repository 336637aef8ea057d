package automaton

import (
	"sort"
	"strconv"

	"github.com/sablefin/lalrgen/grammar"
)

// Automaton is the canonical collection of LR(0) states built from an
// augmented grammar, plus the transition/predecessor graph over them
// (spec §4.4).
type Automaton struct {
	Grammar *grammar.Grammar
	States  []*State
	Start   int

	identityIndex map[string]int
}

// Build constructs the canonical LALR(1) collection for g (which must be
// augmented) by the direct LR(0)-kernel-identity construction of spec §4.4:
// states are created incrementally from a work queue, hashed by their LR(0)
// identity so that sets sharing a kernel are the same state, and
// predecessor edges are recorded as they are discovered. Nothing in this
// module reads the predecessor map: lookaheads are assigned from FOLLOW
// sets by parse.Lookaheads.
//
// trace, if non-nil, receives one line per state created, for debugging
// large automata (spec §7 propagation policy: generation diagnostics flow
// through the same hook runtime parse errors do).
func Build(g *grammar.Grammar, trace func(string)) (*Automaton, error) {
	if !g.Augmented() {
		return nil, errNotAugmented
	}

	a := &Automaton{
		Grammar:       g,
		identityIndex: make(map[string]int),
	}

	startItem := Item{Production: 0, Dot: 0} // $accept -> . S $end
	startKernel := map[string]Item{startItem.Key(): startItem}

	start := a.closureState(len(a.States), startKernel)
	a.States = append(a.States, start)
	a.identityIndex[start.Identity()] = start.ID
	a.Start = start.ID

	if trace != nil {
		trace("automaton: state 0 (start) created")
	}

	queue := []int{start.ID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		state := a.States[cur]

		for _, sym := range outgoingSymbols(state, g) {
			kernel := a.gotoKernel(state, sym)
			if len(kernel) == 0 {
				continue
			}

			next := a.closureState(-1, kernel)
			identity := next.Identity()

			if existingID, ok := a.identityIndex[identity]; ok {
				state.Transitions[sym] = existingID
				a.States[existingID].Predecessors[sym] = append(a.States[existingID].Predecessors[sym], cur)
				continue
			}

			next.ID = len(a.States)
			a.States = append(a.States, next)
			a.identityIndex[identity] = next.ID
			state.Transitions[sym] = next.ID
			next.Predecessors[sym] = append(next.Predecessors[sym], cur)

			if trace != nil {
				trace(traceLine(next.ID, sym, g))
			}

			queue = append(queue, next.ID)
		}
	}

	return a, nil
}

var errNotAugmented = &notAugmentedError{}

type notAugmentedError struct{}

func (e *notAugmentedError) Error() string {
	return "automaton: grammar passed to Build must be augmented first"
}

func traceLine(id int, sym grammar.SymbolID, g *grammar.Grammar) string {
	return "automaton: state " + strconv.Itoa(id) + " created via " + g.Symbols.Name(sym)
}

// outgoingSymbols lists, in the state's item-insertion order, every symbol
// that appears as some item's NextSymbol, each exactly once.
func outgoingSymbols(s *State, g *grammar.Grammar) []grammar.SymbolID {
	seen := make(map[grammar.SymbolID]bool)
	var out []grammar.SymbolID
	for _, it := range s.Items() {
		sym, ok := it.NextSymbol(g)
		if !ok || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

// gotoKernel implements GOTO(I, X) (spec §4.4): collect every item
// [A -> α.Xβ] in I, advance the dot, and return the resulting kernel
// (before closure).
func (a *Automaton) gotoKernel(s *State, x grammar.SymbolID) map[string]Item {
	kernel := make(map[string]Item)
	for _, it := range s.Items() {
		next, ok := it.NextSymbol(a.Grammar)
		if !ok || next != x {
			continue
		}
		advanced := it.Advance()
		kernel[advanced.Key()] = advanced
	}
	return kernel
}

// closureState computes the closure of a kernel item set and returns it as
// a finalized State (spec §4.4 "Closure of an item set"): nonterminals are
// expanded at most once per closure, and items with the dot at the end
// populate Reductions.
func (a *Automaton) closureState(id int, kernel map[string]Item) *State {
	s := newState(id)
	expanded := make(map[grammar.SymbolID]bool)

	// process kernel items first, in a stable order, so state identity
	// construction and trace output are reproducible.
	var order []string
	for k := range kernel {
		order = append(order, k)
	}
	sort.Strings(order)

	var frontier []Item
	for _, k := range order {
		it := kernel[k]
		s.addItem(it)
		frontier = append(frontier, it)
	}

	for i := 0; i < len(frontier); i++ {
		it := frontier[i]
		next, ok := it.NextSymbol(a.Grammar)
		if !ok || a.Grammar.IsTerminal(next) {
			continue
		}
		if expanded[next] {
			continue
		}
		expanded[next] = true

		for _, pid := range a.Grammar.ProductionsFor(next) {
			newItem := Item{Production: pid, Dot: 0}
			if s.addItem(newItem) {
				frontier = append(frontier, newItem)
			}
		}
	}

	s.finalize(a.Grammar)
	return s
}
