// Package grammar normalizes a structured grammar specification into an
// augmented, interned form and computes the nullable/FIRST/FOLLOW fixed
// points over it. It corresponds to C1 (Grammar Loader) and C2
// (Nullable/FIRST/FOLLOW) of the generator pipeline.
package grammar

import "fmt"

// SymbolID is a small interned integer identifying a terminal or nonterminal.
// Two reserved symbols are always present: SymAccept (the $accept pseudo
// nonterminal) and SymEnd (the $end marker). SymError is reserved for the
// "error" terminal used by panic-mode recovery.
type SymbolID int

const (
	// SymAccept is the augmented start nonterminal, $accept.
	SymAccept SymbolID = 0

	// SymEnd is the end-of-input marker terminal, $end.
	SymEnd SymbolID = 1

	// SymError is the reserved terminal used for error-recovery productions.
	SymError SymbolID = 2
)

// NameAccept, NameEnd, and NameError are the reserved display names for the
// three always-present symbols.
const (
	NameAccept = "$accept"
	NameEnd    = "$end"
	NameError  = "error"
)

// Symbol is an interned grammar symbol: a terminal (leaf, produces no
// productions of its own) or a nonterminal (has one or more productions).
type Symbol struct {
	ID       SymbolID
	Name     string
	Terminal bool
}

func (s Symbol) String() string {
	return s.Name
}

// SymbolTable interns symbol names to small integer ids in first-seen order.
// Iteration over a SymbolTable must always be in that insertion order; this
// is what makes generation deterministic (spec §5).
type SymbolTable struct {
	byID   []Symbol
	byName map[string]SymbolID
}

// NewSymbolTable returns a SymbolTable pre-seeded with the three reserved
// symbols: $accept (id 0, nonterminal), $end (id 1, terminal), and error
// (id 2, terminal).
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{
		byName: make(map[string]SymbolID),
	}
	t.intern(NameAccept, false)
	t.intern(NameEnd, true)
	t.intern(NameError, true)
	return t
}

// Intern returns the id for name, assigning the next available id and
// recording terminal-ness if name has not been seen before. If name has
// already been interned, its existing id is returned unchanged regardless of
// the terminal argument given here.
func (t *SymbolTable) Intern(name string, terminal bool) SymbolID {
	if id, ok := t.byName[name]; ok {
		return id
	}
	return t.intern(name, terminal)
}

func (t *SymbolTable) intern(name string, terminal bool) SymbolID {
	id := SymbolID(len(t.byID))
	t.byID = append(t.byID, Symbol{ID: id, Name: name, Terminal: terminal})
	t.byName[name] = id
	return id
}

// Lookup returns the id for name and whether it has been interned.
func (t *SymbolTable) Lookup(name string) (SymbolID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Symbol returns the Symbol for id. It panics if id is out of range, which
// can only happen on a programmer error since ids are always allocated by
// this table.
func (t *SymbolTable) Symbol(id SymbolID) Symbol {
	if int(id) < 0 || int(id) >= len(t.byID) {
		panic(fmt.Sprintf("grammar: symbol id %d out of range", id))
	}
	return t.byID[id]
}

// Name is shorthand for Symbol(id).Name.
func (t *SymbolTable) Name(id SymbolID) string {
	return t.Symbol(id).Name
}

// IsTerminal is shorthand for Symbol(id).Terminal.
func (t *SymbolTable) IsTerminal(id SymbolID) bool {
	return t.Symbol(id).Terminal
}

// Len returns the number of interned symbols, including the three reserved
// ones.
func (t *SymbolTable) Len() int {
	return len(t.byID)
}

// All returns every interned symbol in insertion order.
func (t *SymbolTable) All() []Symbol {
	out := make([]Symbol, len(t.byID))
	copy(out, t.byID)
	return out
}
