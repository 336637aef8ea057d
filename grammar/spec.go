package grammar

// Alt is one right-hand-side alternative for a nonterminal (spec §4.1,
// §6). RHS is a whitespace-delimited string of symbol names; a symbol may
// carry a bracketed alias, `Sym[name]`, used inside Action to refer to that
// position by name instead of by number. Prec, if non-empty, names the
// operator-table terminal this alternative's precedence is taken from,
// overriding the right-most-terminal inference rule (spec §4.1.4).
type Alt struct {
	RHS    string
	Action string
	Prec   string
}

// Rule is one nonterminal's declaration: its name and its ordered list of
// alternatives. Spec input is a slice of Rules, not a map, so that
// declaration order — and therefore symbol interning order — is
// unambiguous (spec §5 determinism).
type Rule struct {
	NonTerminal string
	Alts        []Alt
}

// OperatorDecl is one level of the operator precedence table (spec §3, §6):
// an associativity and the terminals that share that level. The overall
// Spec.Operators list is ordered lowest-precedence first; level numbers are
// assigned 1..K in that order.
type OperatorDecl struct {
	Assoc   string
	Symbols []string
}

// Options are the generator-wide knobs from spec §6.
type Options struct {
	// ModuleName identifies the generated parser. It is stored as given:
	// nothing in this module validates it or substitutes a default name for
	// an empty or invalid one.
	ModuleName string `toml:"module_name"`

	// NoDefaultResolve retains ambiguous (multi-action) cells in the table
	// instead of silently picking a winner (spec §4.6, §4.7).
	NoDefaultResolve bool `toml:"no_default_resolve"`

	// OnDemandLookahead restricts reduce-action lookaheads in conflict-free
	// states to each item's own FOLLOW set rather than all terminals
	// (spec §4.7, §9 Open Question 2).
	OnDemandLookahead bool `toml:"on_demand_lookahead"`
}

// Spec is the structured grammar input to Load (spec §4.1, §6). It
// corresponds to the "already parsed into a structured specification"
// assumption spec §1 makes about the grammar front end.
type Spec struct {
	Rules []Rule

	// Tokens, if non-empty, is the declared terminal list used only to
	// cross-check against the terminals discovered while walking Rules
	// (spec §4.1 errors, SPEC_FULL.md §4.1a).
	Tokens []string

	// Operators is ordered lowest-precedence-level first.
	Operators []OperatorDecl

	// Start names the start nonterminal. If empty, the lhs of the first
	// rule is used.
	Start string

	// ParseParams names extra parameters threaded into the semantic action
	// dispatcher at runtime (spec §6); the core does not interpret them.
	ParseParams []string

	ActionInclude string
	ModuleInclude string

	Options Options
}
