package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadAugmented(t *testing.T, spec Spec) *Grammar {
	t.Helper()
	g, err := Load(spec, nil)
	require.NoError(t, err)
	ag, err := g.Augment()
	require.NoError(t, err)
	ComputeSets(ag)
	return ag
}

func Test_Load_EmptyGrammar(t *testing.T) {
	_, err := Load(Spec{}, nil)
	assert.Error(t, err)
}

func Test_Load_UnknownStartSymbol(t *testing.T) {
	_, err := Load(Spec{
		Rules: []Rule{
			{NonTerminal: "S", Alts: []Alt{{RHS: "a"}}},
		},
		Start: "NotAThing",
	}, nil)
	assert.Error(t, err)
}

func Test_Load_InternsTerminalsAndNonterminals(t *testing.T) {
	g, err := Load(Spec{
		Rules: []Rule{
			{NonTerminal: "S", Alts: []Alt{{RHS: "A b"}}},
			{NonTerminal: "A", Alts: []Alt{{RHS: "a"}}},
		},
	}, nil)
	require.NoError(t, err)

	sID, ok := g.Symbols.Lookup("S")
	require.True(t, ok)
	assert.False(t, g.IsTerminal(sID))

	bID, ok := g.Symbols.Lookup("b")
	require.True(t, ok)
	assert.True(t, g.IsTerminal(bID))

	assert.Equal(t, sID, g.StartSymbol())
}

// Test_S3_EmptyProduction implements spec §8 seed scenario S3: A -> B C,
// B -> b | ε, C -> c. Expects nullable(B), FIRST(A) = {b, c}, FOLLOW(B) = {c}.
func Test_S3_EmptyProduction(t *testing.T) {
	g := loadAugmented(t, Spec{
		Rules: []Rule{
			{NonTerminal: "A", Alts: []Alt{{RHS: "B C"}}},
			{NonTerminal: "B", Alts: []Alt{{RHS: "b"}, {RHS: ""}}},
			{NonTerminal: "C", Alts: []Alt{{RHS: "c"}}},
		},
	})

	bID, _ := g.Symbols.Lookup("B")
	cID, _ := g.Symbols.Lookup("C")
	aID, _ := g.Symbols.Lookup("A")
	bTermID, _ := g.Symbols.Lookup("b")
	cTermID, _ := g.Symbols.Lookup("c")

	assert.True(t, g.Nullable(bID))
	assert.False(t, g.Nullable(cID))

	first := g.First(aID)
	assert.True(t, first.Has(bTermID))
	assert.True(t, first.Has(cTermID))
	assert.Equal(t, 2, first.Len())

	follow := g.Follow(bID)
	assert.True(t, follow.Has(cTermID))
}

func Test_ProductionTable_IndexedByID(t *testing.T) {
	g := loadAugmented(t, Spec{
		Rules: []Rule{
			{NonTerminal: "S", Alts: []Alt{{RHS: "a"}}},
		},
	})

	table := g.ProductionTable()
	require.Len(t, table, 2) // id 0 (accept) + id 1

	sID, _ := g.Symbols.Lookup("S")
	assert.Equal(t, [2]int{int(SymAccept), 2}, table[0]) // $accept -> S $end
	assert.Equal(t, [2]int{int(sID), 1}, table[1])       // S -> a
}

func Test_OperatorPrecedence_RightmostTerminalWins(t *testing.T) {
	g, err := Load(Spec{
		Rules: []Rule{
			{NonTerminal: "E", Alts: []Alt{
				{RHS: "E + E"},
				{RHS: "E * E"},
				{RHS: "id"},
			}},
		},
		Operators: []OperatorDecl{
			{Assoc: "left", Symbols: []string{"+"}},
			{Assoc: "left", Symbols: []string{"*"}},
		},
	}, nil)
	require.NoError(t, err)

	plusProd := g.Production(1)
	starProd := g.Production(2)
	idProd := g.Production(3)

	assert.Equal(t, 1, plusProd.Precedence)
	assert.Equal(t, 2, starProd.Precedence)
	assert.Equal(t, 0, idProd.Precedence)
}

func Test_ExplicitPrecedenceOverridesInference(t *testing.T) {
	g, err := Load(Spec{
		Rules: []Rule{
			{NonTerminal: "E", Alts: []Alt{
				{RHS: "- E", Prec: "UMINUS"},
				{RHS: "id"},
			}},
		},
		Operators: []OperatorDecl{
			{Assoc: "left", Symbols: []string{"-"}},
			{Assoc: "nonassoc", Symbols: []string{"UMINUS"}},
		},
	}, nil)
	require.NoError(t, err)

	unaryMinus := g.Production(1)
	assert.Equal(t, 2, unaryMinus.Precedence)
}

func Test_ActionRewrite_PositionalAndAliasRefs(t *testing.T) {
	g, err := Load(Spec{
		Rules: []Rule{
			{NonTerminal: "E", Alts: []Alt{
				{RHS: "E[left] + E[right]", Action: "$$ = $left + $right; @$ = @1"},
			}},
			{NonTerminal: "E", Alts: []Alt{{RHS: "id"}}},
		},
	}, nil)
	require.NoError(t, err)

	p := g.Production(1)
	assert.Contains(t, p.Action, "$$ = $-2 + $0")
	assert.Contains(t, p.Action, "@$ = @-2")
	assert.Equal(t, 1, p.Aliases["left"])
	assert.Equal(t, 3, p.Aliases["right"])
}

func Test_ActionRewrite_ControlDirectives(t *testing.T) {
	g, err := Load(Spec{
		Rules: []Rule{
			{NonTerminal: "S", Alts: []Alt{{RHS: "a", Action: "if bad { YYABORT } YYACCEPT"}}},
		},
	}, nil)
	require.NoError(t, err)

	p := g.Production(1)
	assert.Contains(t, p.Action, "return false")
	assert.Contains(t, p.Action, "return true")
}

func Test_GroupActions_GroupsIdenticalBodies(t *testing.T) {
	g, err := Load(Spec{
		Rules: []Rule{
			{NonTerminal: "E", Alts: []Alt{
				{RHS: "E + E", Action: "$$ = $1 + $3"},
				{RHS: "E - E", Action: "$$ = $1 + $3"},
				{RHS: "id", Action: "$$ = $1"},
			}},
		},
	}, nil)
	require.NoError(t, err)

	groups := g.GroupActions()
	require.Len(t, groups, 2)
	assert.ElementsMatch(t, []ProdID{1, 2}, groups[0].Productions)
	assert.ElementsMatch(t, []ProdID{3}, groups[1].Productions)
}

func Test_DeclaredTokenMismatch_WarnsButDoesNotFail(t *testing.T) {
	var warnings []string
	trace := func(s string) { warnings = append(warnings, s) }

	_, err := Load(Spec{
		Rules: []Rule{
			{NonTerminal: "S", Alts: []Alt{{RHS: "a"}}},
		},
		Tokens: []string{"a", "unused"},
	}, trace)
	require.NoError(t, err)
	assert.NotEmpty(t, warnings)
}

func Test_Augment_CannotAugmentTwice(t *testing.T) {
	g, err := Load(Spec{
		Rules: []Rule{{NonTerminal: "S", Alts: []Alt{{RHS: "a"}}}},
	}, nil)
	require.NoError(t, err)

	ag, err := g.Augment()
	require.NoError(t, err)

	_, err = ag.Augment()
	assert.Error(t, err)
}
