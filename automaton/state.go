package automaton

import (
	"sort"
	"strings"

	"github.com/sablefin/lalrgen/grammar"
)

// State is a canonical LR(0) item set (spec §3 "State (item set)"): its
// closure, its transition map to successor states, a reverse predecessor
// map (populated as the canonical collection is built; lookahead
// assignment in parse.Lookaheads uses FOLLOW sets and does not read it),
// and the reduction items it contains.
type State struct {
	ID int

	// items holds every item in the closure, keyed by Item.Key(). itemOrder
	// records first-insertion order so that iteration (e.g. over which
	// symbols the state has transitions on) is deterministic (spec §5).
	items     map[string]Item
	itemOrder []string

	Transitions  map[grammar.SymbolID]int
	Predecessors map[grammar.SymbolID][]int

	Reductions   []Item
	HasShifts    bool
	HasConflicts bool

	identity string
}

func newState(id int) *State {
	return &State{
		ID:           id,
		items:        make(map[string]Item),
		Transitions:  make(map[grammar.SymbolID]int),
		Predecessors: make(map[grammar.SymbolID][]int),
	}
}

// addItem inserts it into the state's closure if not already present.
// Returns whether the item was new.
func (s *State) addItem(it Item) bool {
	if _, ok := s.items[it.Key()]; ok {
		return false
	}
	s.items[it.Key()] = it
	s.itemOrder = append(s.itemOrder, it.Key())
	s.identity = "" // invalidate memoized identity
	return true
}

// Items returns every item in the state's closure, in first-insertion
// order.
func (s *State) Items() []Item {
	out := make([]Item, len(s.itemOrder))
	for i, k := range s.itemOrder {
		out[i] = s.items[k]
	}
	return out
}

// Len returns the number of items in the state's closure.
func (s *State) Len() int {
	return len(s.items)
}

// Identity returns the state's canonical identity: the sorted list of its
// LR(0) item keys, joined. Two states are the same state iff their
// identities match (spec §3 "State"); this is what makes the automaton
// LALR rather than canonical LR(1) — lookaheads never participate.
//
// The computation is memoized per spec §4.3, since it is queried on every
// insertion into the canonical-collection hash index during C4.
func (s *State) Identity() string {
	if s.identity != "" {
		return s.identity
	}

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.identity = strings.Join(keys, "|")
	return s.identity
}

// finalize computes HasShifts, HasConflicts, and Reductions from the
// state's closure, per spec §4.4: "Set hasShifts when any item has a
// terminal nextSymbol; set hasConflicts when the state has either >= 2
// reductions, or >= 1 reduction with >= 1 shift."
func (s *State) finalize(g *grammar.Grammar) {
	s.Reductions = nil
	s.HasShifts = false

	for _, it := range s.Items() {
		next, ok := it.NextSymbol(g)
		if !ok {
			s.Reductions = append(s.Reductions, it)
			continue
		}
		if g.IsTerminal(next) {
			s.HasShifts = true
		}
	}

	s.HasConflicts = len(s.Reductions) >= 2 || (len(s.Reductions) >= 1 && s.HasShifts)
}
