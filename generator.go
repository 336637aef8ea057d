// Package lalrgen is the compiler-compiler core: given a structured
// grammar specification it runs nullable/FIRST/FOLLOW computation, builds
// the canonical LALR(1) automaton, resolves conflicts into an action/goto
// table, and hands back a runtime parser bound to caller-supplied semantic
// actions. Lexing, grammar-text parsing, code emission, and packaging are
// all out of scope (spec §1) and left to the caller.
package lalrgen

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/sablefin/lalrgen/automaton"
	"github.com/sablefin/lalrgen/grammar"
	"github.com/sablefin/lalrgen/parse"
)

// Generator runs C1 through C7 over a single grammar.Spec, the orchestration
// ictiobus.go did for a runtime Lexer/Parser/SDD trio (spec §9 "the emitted
// parser ... wraps stateTable, defaultActions, and conflictLog"), scoped
// down to table generation since the runtime loop lives entirely in
// package parse.
type Generator struct {
	// RunID correlates trace lines across a single generation run when
	// multiple Generators execute concurrently (spec §5 concurrency note:
	// "a Generator run is a pure function of its Spec and Options").
	RunID uuid.UUID

	// Trace, if non-nil, receives one line per notable event across every
	// stage: grammar warnings, new automaton states, table conflicts.
	Trace func(string)

	Grammar   *grammar.Grammar
	Automaton *automaton.Automaton
	Table     *parse.Table
}

// New returns a Generator with a fresh RunID.
func New() *Generator {
	return &Generator{RunID: uuid.New()}
}

func (g *Generator) notifyTrace(format string, args ...any) {
	if g.Trace != nil {
		g.Trace(fmt.Sprintf(format, args...))
	}
}

// Run executes C1 (load), C2 (nullable/FIRST/FOLLOW), C4 (automaton), and
// C5–C7 (lookahead, conflicts, table) over spec, leaving Grammar, Automaton,
// and Table populated on success. A Generator may only be Run once.
func (g *Generator) Run(spec grammar.Spec) error {
	if g.Table != nil {
		return fmt.Errorf("lalrgen: run %s: Generator has already been run", g.RunID)
	}

	loaded, err := grammar.Load(spec, g.Trace)
	if err != nil {
		return fmt.Errorf("lalrgen: run %s: load grammar: %w", g.RunID, err)
	}
	g.notifyTrace("run %s: loaded %d rule(s), start symbol %q", g.RunID, len(spec.Rules), loaded.Symbols.Name(loaded.StartSymbol()))

	augmented, err := loaded.Augment()
	if err != nil {
		return fmt.Errorf("lalrgen: run %s: augment grammar: %w", g.RunID, err)
	}
	grammar.ComputeSets(augmented)
	g.Grammar = augmented

	auto, err := automaton.Build(augmented, g.Trace)
	if err != nil {
		return fmt.Errorf("lalrgen: run %s: build automaton: %w", g.RunID, err)
	}
	g.Automaton = auto
	g.notifyTrace("run %s: built %d automaton state(s)", g.RunID, len(auto.States))

	tableOpts := parse.Options{
		NoDefaultResolve:  spec.Options.NoDefaultResolve,
		OnDemandLookahead: spec.Options.OnDemandLookahead,
	}
	table, err := parse.Build(augmented, auto, tableOpts, g.Trace)
	if err != nil {
		return fmt.Errorf("lalrgen: run %s: build table: %w", g.RunID, err)
	}
	g.Table = table

	stats := table.Stats()
	g.notifyTrace("run %s: table built, %d by-default conflict(s) across %d state(s)", g.RunID, stats.Conflicts, stats.States)

	return nil
}

// Parser binds perform to the generated table, producing the runtime C8
// loop (spec §9 Open Question 3: built directly from in-memory tables
// rather than through an eval-based bootstrap). Run must have succeeded
// first.
func (g *Generator) Parser(perform parse.PerformAction) (*parse.Parser, error) {
	if g.Table == nil {
		return nil, fmt.Errorf("lalrgen: Run must succeed before Parser can be called")
	}
	return &parse.Parser{
		Grammar:       g.Grammar,
		Table:         g.Table,
		PerformAction: perform,
		Trace:         g.Trace,
	}, nil
}

// LoadOptionsFile decodes generator options from a TOML file. The grammar
// itself is always given as a grammar.Spec value (spec §1's "already
// parsed into a structured specification" assumption); this only covers
// the generator-wide knobs a caller might want to externalize.
func LoadOptionsFile(path string) (grammar.Options, error) {
	var opts grammar.Options
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return grammar.Options{}, fmt.Errorf("lalrgen: decode options file %q: %w", path, err)
	}
	return opts, nil
}
