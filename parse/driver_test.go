package parse

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablefin/lalrgen/automaton"
	"github.com/sablefin/lalrgen/grammar"
)

// fixedLexer replays a pre-tokenized stream, counting how many times Lex is
// called so tests can check the driver never pulls an extra token across a
// default-action reduction chain (spec §8 seed scenario S5).
type fixedLexer struct {
	toks  []string
	texts []string
	pos   int
	calls int
}

func (l *fixedLexer) SetInput(string, map[string]any) {}

func (l *fixedLexer) Lex() (string, bool) {
	l.calls++
	if l.pos >= len(l.toks) {
		return "", false
	}
	name := l.toks[l.pos]
	l.pos++
	return name, true
}

func (l *fixedLexer) Text() string {
	if l.pos == 0 || l.pos > len(l.texts) {
		return ""
	}
	return l.texts[l.pos-1]
}

func (l *fixedLexer) Len() int            { return len(l.Text()) }
func (l *fixedLexer) Line() int           { return 1 }
func (l *fixedLexer) Loc() Location        { return Location{FirstLine: 1, LastLine: 1} }
func (l *fixedLexer) ShowPosition() string { return "" }

func buildParser(t *testing.T, spec grammar.Spec, opts Options, perform PerformAction) *Parser {
	t.Helper()

	g, err := grammar.Load(spec, nil)
	require.NoError(t, err)

	ag, err := g.Augment()
	require.NoError(t, err)

	grammar.ComputeSets(ag)

	a, err := automaton.Build(ag, nil)
	require.NoError(t, err)

	tbl, err := Build(ag, a, opts, nil)
	require.NoError(t, err)

	return &Parser{Grammar: ag, Table: tbl, PerformAction: perform}
}

// sumAction folds each "id" leaf to the integer in its lexeme, enough
// structure to confirm precedence actually changed the parse shape (S1:
// "id + id * id" must group the multiply first).
func sumAction(yytext string, _, _ int, _ map[string]any, _ grammar.ProdID, values []any, _ []Location) ActionResult {
	switch len(values) {
	case 1:
		if n, err := strconv.Atoi(yytext); err == nil {
			return ActionResult{Value: n}
		}
		return ActionResult{Value: values[0]}
	case 3:
		op, _ := values[1].(string)
		l, _ := values[0].(int)
		r, _ := values[2].(int)
		switch op {
		case "+":
			return ActionResult{Value: l + r}
		case "*":
			return ActionResult{Value: l * r}
		}
	}
	return ActionResult{Value: values[0]}
}

func Test_Parser_S1_PrecedenceShapesEvaluation(t *testing.T) {
	p := buildParser(t, grammar.Spec{
		Rules: []grammar.Rule{
			{NonTerminal: "E", Alts: []grammar.Alt{
				{RHS: "E + E"},
				{RHS: "E * E"},
				{RHS: "id"},
			}},
		},
		Operators: []grammar.OperatorDecl{
			{Assoc: "left", Symbols: []string{"+"}},
			{Assoc: "left", Symbols: []string{"*"}},
		},
	}, Options{}, sumAction)

	lex := &fixedLexer{
		toks:  []string{"id", "+", "id", "*", "id"},
		texts: []string{"2", "+", "3", "*", "4"},
	}

	// 2 + (3 * 4) = 14 if '*' binds tighter; (2 + 3) * 4 = 20 otherwise.
	result, err := p.Parse(lex, "id + id * id", nil)
	require.NoError(t, err)
	assert.Equal(t, 14, result)
}

func Test_Parser_S4_ReduceReduceChoosesLowerProduction(t *testing.T) {
	var reducedVia grammar.ProdID
	p := buildParser(t, grammar.Spec{
		Rules: []grammar.Rule{
			{NonTerminal: "S", Alts: []grammar.Alt{{RHS: "A"}, {RHS: "B"}}},
			{NonTerminal: "A", Alts: []grammar.Alt{{RHS: "x"}}},
			{NonTerminal: "B", Alts: []grammar.Alt{{RHS: "x"}}},
		},
	}, Options{}, func(yytext string, _, _ int, _ map[string]any, prod grammar.ProdID, values []any, _ []Location) ActionResult {
		// only the first reduction is the one over "x"; the default-action
		// reduction of S -> A right after it still sees yytext "x".
		if yytext == "x" && reducedVia == 0 {
			reducedVia = prod
		}
		if len(values) == 0 {
			return ActionResult{}
		}
		return ActionResult{Value: values[0]}
	})

	lex := &fixedLexer{toks: []string{"x"}, texts: []string{"x"}}
	_, err := p.Parse(lex, "x", nil)
	require.NoError(t, err)

	// production 3 is A -> x (declared first among the two "x" reductions),
	// production 4 is B -> x; the reduce/reduce conflict picks the lower id.
	assert.Equal(t, grammar.ProdID(3), reducedVia)
}

func Test_Parser_S6_NonassocStopsChainedEquals(t *testing.T) {
	p := buildParser(t, grammar.Spec{
		Rules: []grammar.Rule{
			{NonTerminal: "E", Alts: []grammar.Alt{
				{RHS: "E = E"},
				{RHS: "id"},
			}},
		},
		Operators: []grammar.OperatorDecl{
			{Assoc: "nonassoc", Symbols: []string{"="}},
		},
	}, Options{}, func(yytext string, _, _ int, _ map[string]any, _ grammar.ProdID, values []any, _ []Location) ActionResult {
		if len(values) == 0 {
			return ActionResult{}
		}
		return ActionResult{Value: values[0]}
	})

	lex := &fixedLexer{
		toks:  []string{"id", "=", "id", "=", "id"},
		texts: []string{"id", "=", "id", "=", "id"},
	}

	_, err := p.Parse(lex, "id = id = id", nil)
	require.Error(t, err)

	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, "=", synErr.Terminal)
	// the grammar never uses the reserved error terminal, so no state on
	// the stack can shift it: nothing to recover into.
	assert.False(t, synErr.Recoverable)
}

func Test_Parser_DefaultActionDoesNotConsumeExtraToken(t *testing.T) {
	p := buildParser(t, grammar.Spec{
		Rules: []grammar.Rule{
			{NonTerminal: "S", Alts: []grammar.Alt{{RHS: "A"}}},
			{NonTerminal: "A", Alts: []grammar.Alt{{RHS: "a"}}},
		},
	}, Options{}, func(_ string, _, _ int, _ map[string]any, _ grammar.ProdID, values []any, _ []Location) ActionResult {
		if len(values) == 0 {
			return ActionResult{}
		}
		return ActionResult{Value: values[0]}
	})

	lex := &fixedLexer{toks: []string{"a"}, texts: []string{"a"}}
	_, err := p.Parse(lex, "a", nil)
	require.NoError(t, err)

	// one call to consume "a", one to discover $end; the default-action
	// reduction of A -> a itself must not trigger an extra Lex call.
	assert.Equal(t, 2, lex.calls)
}
