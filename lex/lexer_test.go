package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arithLexer(t *testing.T) *Lexer {
	t.Helper()
	lx, err := NewBuilder().
		Add("default", `[ \t\n]+`, Discard()).
		Add("default", `[0-9]+`, Emit("num")).
		Add("default", `\+`, Emit("+")).
		Add("default", `\*`, Emit("*")).
		Add("default", `\(`, Emit("(")).
		Add("default", `\)`, Emit(")")).
		Build("default")
	require.NoError(t, err)
	return lx
}

func drain(lx *Lexer, text string) []string {
	lx.SetInput(text, nil)
	var toks []string
	for {
		name, ok := lx.Lex()
		if !ok {
			break
		}
		toks = append(toks, name)
	}
	return toks
}

func Test_Lexer_TokenizesAndSkipsWhitespace(t *testing.T) {
	lx := arithLexer(t)
	toks := drain(lx, "12 + 3 * (4)")
	assert.Equal(t, []string{"num", "+", "num", "*", "(", "num", ")"}, toks)
}

func Test_Lexer_LongestMatchWins(t *testing.T) {
	lx, err := NewBuilder().
		Add("default", `=`, Emit("=")).
		Add("default", `==`, Emit("==")).
		Build("default")
	require.NoError(t, err)

	lx.SetInput("==", nil)
	name, ok := lx.Lex()
	require.True(t, ok)
	assert.Equal(t, "==", name)

	_, ok = lx.Lex()
	assert.False(t, ok)
}

func Test_Lexer_TiesBreakToFirstDeclared(t *testing.T) {
	lx, err := NewBuilder().
		Add("default", `if`, Emit("IF")).
		Add("default", `[a-z]+`, Emit("ID")).
		Build("default")
	require.NoError(t, err)

	lx.SetInput("if", nil)
	name, _ := lx.Lex()
	assert.Equal(t, "IF", name)
}

func Test_Lexer_YytextAndLocationTrackLexeme(t *testing.T) {
	lx := arithLexer(t)
	lx.SetInput("12 + 3", nil)

	name, ok := lx.Lex()
	require.True(t, ok)
	assert.Equal(t, "num", name)
	assert.Equal(t, "12", lx.Text())
	assert.Equal(t, 2, lx.Len())
	assert.Equal(t, 1, lx.Line())
	assert.Equal(t, 1, lx.Loc().FirstColumn)
	assert.Equal(t, 3, lx.Loc().LastColumn)
}

func Test_Lexer_StateSwitchActionsChangeActivePatterns(t *testing.T) {
	lx, err := NewBuilder().
		Add("default", `"`, SwapState("string")).
		Add("default", `[a-z]+`, Emit("ID")).
		Add("string", `[^"]+`, Emit("STR")).
		Add("string", `"`, SwapState("default")).
		Build("default")
	require.NoError(t, err)

	toks := drain(lx, `abc"hello"def`)
	assert.Equal(t, []string{"ID", "STR", "ID"}, toks)
}

func Test_Lexer_PanicModeSkipsUnmatchedInput(t *testing.T) {
	lx, err := NewBuilder().
		Add("default", `[a-z]+`, Emit("ID")).
		Build("default")
	require.NoError(t, err)

	// "#" matches nothing; the lexer should discard it and resume.
	toks := drain(lx, "ab#cd")
	assert.Equal(t, []string{"ID", "ID"}, toks)
}

func Test_Lexer_ShowPositionMarksCurrentColumn(t *testing.T) {
	lx := arithLexer(t)
	lx.SetInput("12 +", nil)
	_, _ = lx.Lex()
	_, _ = lx.Lex()

	pos := lx.ShowPosition()
	assert.Contains(t, pos, "12 +")
	assert.Contains(t, pos, "^")
}
