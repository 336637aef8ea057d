package parse

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"

	"github.com/sablefin/lalrgen/automaton"
	"github.com/sablefin/lalrgen/grammar"
)

// Options are the generator-options keys spec §6 recognizes for table
// construction: moduleName lives on grammar.Options and has no bearing on
// the table itself, so only the two table-shaping flags live here.
type Options struct {
	// NoDefaultResolve retains both actions of a conflict as alternatives on
	// the cell instead of picking one, so downstream tooling can report the
	// ambiguity (spec §4.6).
	NoDefaultResolve bool

	// OnDemandLookahead restricts reduce-action lookaheads to FOLLOW(A) per
	// item rather than unioning every terminal in states without conflicts
	// (spec §4.7 step 3, Open Question 2).
	OnDemandLookahead bool
}

// Cell is one entry of the parse table. Action is the live decision; when
// NoDefaultResolve retained an ambiguity, Alternatives holds the actions
// that lost arbitration, for callers that want to report or re-resolve them.
type Cell struct {
	Action       Action
	Alternatives []Action
}

// Table is the action/goto table built by C7 from an LALR(1) automaton: one
// row per state, keyed by symbol id, since terminals (Shift/Reduce/Accept)
// and nonterminals (Goto) share the same symbol-id space (spec §3 "Parse
// table").
type Table struct {
	Grammar   *grammar.Grammar
	Automaton *automaton.Automaton
	Options   Options

	rows []map[grammar.SymbolID]Cell

	// DefaultActions holds, for every state whose terminal cells all hold
	// one and the same Reduce (with no retained alternatives), the reduction
	// to take without consulting the lookahead symbol (spec §4.7 "Default
	// actions"); see computeDefaultAction.
	DefaultActions map[int]Action

	// Conflicts counts by-default resolutions (spec §4.6 "Counters").
	Conflicts int

	// Resolutions is the per-cell audit log, in the order conflicts were
	// encountered during table construction (spec §8 invariant 6:
	// deterministic given deterministic state numbering).
	Resolutions []Resolution
}

// Build runs C7: filling the action/goto table for every state in a, routing
// conflicting cells through the C6 resolver, and finally computing
// DefaultActions.
func Build(g *grammar.Grammar, a *automaton.Automaton, opts Options, trace func(string)) (*Table, error) {
	t := &Table{
		Grammar:        g,
		Automaton:      a,
		Options:        opts,
		rows:           make([]map[grammar.SymbolID]Cell, len(a.States)),
		DefaultActions: make(map[int]Action),
	}

	for _, s := range a.States {
		t.rows[s.ID] = make(map[grammar.SymbolID]Cell)
		t.buildRow(s, trace)
	}

	for _, s := range a.States {
		t.computeDefaultAction(s.ID)
	}

	return t, nil
}

func (t *Table) buildRow(s *automaton.State, trace func(string)) {
	g := t.Grammar

	// step 1: every transition is a Shift (terminal) or Goto (nonterminal).
	for sym, target := range s.Transitions {
		actType := ActionGoto
		if g.IsTerminal(sym) {
			actType = ActionShift
		}
		t.setCell(s.ID, sym, Action{Type: actType, State: target}, trace)
	}

	// step 2: the item that shifts $end in the accept state accepts instead.
	for _, it := range s.Items() {
		next, ok := it.NextSymbol(g)
		if ok && next == grammar.SymEnd && g.Production(it.Production).LHS == grammar.SymAccept {
			t.rows[s.ID][grammar.SymEnd] = Cell{Action: Action{Type: ActionAccept}}
		}
	}

	// step 3: every reduction item writes its lookahead terminals.
	for _, it := range s.Reductions {
		p := g.Production(it.Production)
		if p.LHS == grammar.SymAccept {
			continue // handled by the accept override above
		}

		for _, term := range ReduceTerminals(g, it, s, t.Options.OnDemandLookahead) {
			t.setCell(s.ID, term, Action{Type: ActionReduce, Production: it.Production}, trace)
		}
	}
}

func (t *Table) setCell(state int, term grammar.SymbolID, candidate Action, trace func(string)) {
	row := t.rows[state]

	existing, ok := row[term]
	if !ok {
		row[term] = Cell{Action: candidate}
		return
	}

	winner, res, ambiguous, handled := resolveConflict(t.Grammar, state, term, existing.Action, candidate, t.Options.NoDefaultResolve)
	if !handled {
		return
	}

	t.Resolutions = append(t.Resolutions, res)
	if res.ByDefault {
		t.Conflicts++
	}
	if trace != nil {
		trace(fmt.Sprintf("parse: %s conflict at state %d on %q resolved to %s",
			res.Kind, state, t.Grammar.Symbols.Name(term), winner))
	}

	if winner.Type == ActionError {
		delete(row, term)
		return
	}

	if ambiguous {
		cell := row[term]
		cell.Action = winner
		cell.Alternatives = append(cell.Alternatives, res.Discarded)
		row[term] = cell
		return
	}

	row[term] = Cell{Action: winner}
}

// computeDefaultAction installs a lookahead-free reduction for states whose
// every terminal cell agrees on the same single Reduce action (spec §4.7
// "Default actions"). $end and the reserved error terminal always occupy a
// cell alongside the grammar's declared terminals when a reduction item's
// lookahead set is "every terminal" (spec §4.7 step 3's un-conflicted
// branch), so the row can hold more than one entry and still be a single
// default action: what matters is that they all agree, not that there is
// exactly one of them.
func (t *Table) computeDefaultAction(state int) {
	row := t.rows[state]

	var sole *Action
	for sym, cell := range row {
		if !t.Grammar.IsTerminal(sym) {
			continue
		}
		if len(cell.Alternatives) > 0 {
			return
		}
		if sole == nil {
			act := cell.Action
			sole = &act
			continue
		}
		if *sole != cell.Action {
			return
		}
	}

	if sole != nil && sole.Type == ActionReduce {
		t.DefaultActions[state] = *sole
	}
}

// Action returns the table's decision for (state, symbol): the state's
// default action, if it has one, whatever the symbol; otherwise the cell's
// action, or the zero (error) Action if the cell is empty.
func (t *Table) Action(state int, symbol grammar.SymbolID) Action {
	if def, ok := t.DefaultActions[state]; ok {
		return def
	}
	return t.rows[state][symbol].Action
}

// Cell returns the full cell at (state, symbol), including any retained
// ambiguous alternatives.
func (t *Table) Cell(state int, symbol grammar.SymbolID) Cell {
	return t.rows[state][symbol]
}

// Goto returns the state GOTO[state, nonterminal] transitions to, and
// whether that entry exists.
func (t *Table) Goto(state int, nonterminal grammar.SymbolID) (int, bool) {
	cell, ok := t.rows[state][nonterminal]
	if !ok || cell.Action.Type != ActionGoto {
		return 0, false
	}
	return cell.Action.State, true
}

// ExpectedTerminals lists the display names of every terminal with a
// non-error entry in state's row, in grammar declaration order — the
// "expected" list spec §4.8 step 2 and Open Question 1 describe. It does
// not consult DefaultActions, since a default-action state accepts any
// terminal by definition.
func (t *Table) ExpectedTerminals(state int) []string {
	var out []string
	for _, term := range t.Grammar.Terminals() {
		if term <= grammar.SymError {
			// $end and error are always present as reserved terminals but
			// are never something a caller typed; skip them, per spec §9
			// Open Question 1.
			continue
		}
		if cell, ok := t.rows[state][term]; ok && cell.Action.Type != ActionError {
			out = append(out, t.Grammar.Symbols.Name(term))
		}
	}
	return out
}

// Stats summarizes a built table for diagnostics and tests (SPEC_FULL.md
// §4.7a).
type Stats struct {
	States         int
	Conflicts      int
	Resolutions    int
	DefaultActions int
	AmbiguousCells int
}

// Stats computes summary counters over the table's rows.
func (t *Table) Stats() Stats {
	s := Stats{
		States:         len(t.rows),
		Conflicts:      t.Conflicts,
		Resolutions:    len(t.Resolutions),
		DefaultActions: len(t.DefaultActions),
	}
	for _, row := range t.rows {
		for _, cell := range row {
			if len(cell.Alternatives) > 0 {
				s.AmbiguousCells++
			}
		}
	}
	return s
}

// Ambiguity names one retained multi-action cell (SPEC_FULL.md §4.6a),
// produced only when Options.NoDefaultResolve kept alternatives instead of
// discarding them.
type Ambiguity struct {
	State     int
	Terminal  grammar.SymbolID
	Chosen    Action
	Discarded []Action
}

// Ambiguities lists every cell still holding more than one action, in
// ascending (state, terminal) order for determinism (spec §8 invariant 6).
func (t *Table) Ambiguities() []Ambiguity {
	var out []Ambiguity
	for state, row := range t.rows {
		terms := make([]grammar.SymbolID, 0, len(row))
		for sym, cell := range row {
			if len(cell.Alternatives) > 0 {
				terms = append(terms, sym)
			}
		}
		sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })
		for _, sym := range terms {
			cell := row[sym]
			out = append(out, Ambiguity{State: state, Terminal: sym, Chosen: cell.Action, Discarded: cell.Alternatives})
		}
	}
	return out
}

// String renders the table as a rosed-formatted grid: one column per
// terminal (action) and nonterminal (goto), one row per state.
func (t *Table) String() string {
	g := t.Grammar
	terms := g.Terminals()
	nonterms := g.Nonterminals()

	headers := []string{"state"}
	for _, term := range terms {
		headers = append(headers, "A:"+g.Symbols.Name(term))
	}
	headers = append(headers, "|")
	for _, nt := range nonterms {
		headers = append(headers, "G:"+g.Symbols.Name(nt))
	}

	data := [][]string{headers}

	for state := 0; state < len(t.rows); state++ {
		row := []string{fmt.Sprintf("%d", state)}
		for _, term := range terms {
			row = append(row, cellText(t.Action(state, term)))
		}
		row = append(row, "|")
		for _, nt := range nonterms {
			cell := ""
			if target, ok := t.Goto(state, nt); ok {
				cell = fmt.Sprintf("%d", target)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func cellText(act Action) string {
	switch act.Type {
	case ActionShift:
		return fmt.Sprintf("s%d", act.State)
	case ActionReduce:
		return fmt.Sprintf("r%d", act.Production)
	case ActionAccept:
		return "acc"
	default:
		return ""
	}
}
