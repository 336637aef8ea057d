// Package lex provides a regex-table lexer implementing parse.Lexer, used
// only by tests and examples: lexical analysis is explicitly outside the
// generator's core (spec §1).
package lex

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sablefin/lalrgen/parse"
)

type rule struct {
	src string
	act Action
}

// Builder accumulates per-state pattern/action rules before compiling them
// into a Lexer. States are the lexer's own "start conditions" (spec §6,
// grounded on the teacher's lex/lazy.go per-state pattern super-regex), not
// related to the parser's automaton states.
type Builder struct {
	patterns map[string][]rule
	order    []string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{patterns: make(map[string][]rule)}
}

// Add registers pattern (POSIX ERE syntax as accepted by
// regexp.CompilePOSIX, unanchored) for state, with
// the action to take when it matches. Patterns in the same state are tried
// together; the longest match wins, ties broken by declaration order
// (classic lex semantics, grounded on lazy.go's selectMatch).
func (b *Builder) Add(state, pattern string, act Action) *Builder {
	if _, ok := b.patterns[state]; !ok {
		b.order = append(b.order, state)
	}
	b.patterns[state] = append(b.patterns[state], rule{src: pattern, act: act})
	return b
}

type compiledState struct {
	pattern *regexp.Regexp
	actions []Action
}

// Build compiles every state's patterns into one alternation regex per
// state and returns a ready-to-use Lexer starting in startState.
func (b *Builder) Build(startState string) (*Lexer, error) {
	states := make(map[string]*compiledState, len(b.patterns))

	for _, state := range b.order {
		rules := b.patterns[state]

		// every alternative carries its own ^ anchor, since POSIX syntax
		// has no non-capturing group to anchor the whole alternation with.
		var super strings.Builder
		acts := make([]Action, len(rules))
		for i, r := range rules {
			super.WriteString("^(" + r.src + ")")
			if i+1 < len(rules) {
				super.WriteByte('|')
			}
			acts[i] = r.act
		}

		// POSIX mode gives leftmost-longest alternation instead of Go's
		// default leftmost-first: without it the branch order of Add calls
		// would silently pick the first pattern that matches at all rather
		// than the longest one, defeating selectMatch's tie-break below.
		compiled, err := regexp.CompilePOSIX(super.String())
		if err != nil {
			return nil, fmt.Errorf("lex: state %q: compiling pattern table: %w", state, err)
		}

		states[state] = &compiledState{pattern: compiled, actions: acts}
	}

	if _, ok := states[startState]; !ok {
		return nil, fmt.Errorf("lex: unknown start state %q", startState)
	}

	return &Lexer{states: states, start: startState}, nil
}

// Lexer is a regex-driven implementation of parse.Lexer operating over an
// in-memory string (the teacher's lazy.go instead buffers an io.Reader;
// that machinery exists only to support Peek(), which this reference lexer
// has no need of).
type Lexer struct {
	states map[string]*compiledState
	start  string
	state  string

	text string
	pos  int

	curLine     int
	curCol      int
	curFullLine string

	panicking bool

	yytext   string
	yyleng   int
	yylineno int
	yylloc   parse.Location
}

var _ parse.Lexer = (*Lexer)(nil)

// SetInput resets the lexer onto text, starting over in the builder's
// start state. yy is accepted to satisfy parse.Lexer but unused: this
// lexer carries no lexer-state in yy.
func (lx *Lexer) SetInput(text string, _ map[string]any) {
	lx.text = text
	lx.pos = 0
	lx.state = lx.start
	lx.curLine = 1
	lx.curCol = 1
	lx.curFullLine = ""
	lx.panicking = false
}

// Lex scans the next terminal, applying state-switch actions and skipping
// discarded lexemes, per the teacher's lazy.go Next(). Unmatched input
// enters panic mode: characters are dropped one at a time until a pattern
// matches again or input is exhausted.
func (lx *Lexer) Lex() (string, bool) {
	for {
		if lx.pos >= len(lx.text) {
			return "", false
		}

		cs, ok := lx.states[lx.state]
		if !ok {
			panic(fmt.Sprintf("lex: no patterns registered for state %q", lx.state))
		}

		if lx.panicking {
			lx.advanceRune()
			if lx.pos >= len(lx.text) {
				return "", false
			}
		}

		candidates := cs.pattern.FindStringSubmatch(lx.text[lx.pos:])
		if candidates == nil {
			lx.panicking = true
			continue
		}
		lx.panicking = false

		actionIdx, lexeme := selectMatch(candidates)
		act := cs.actions[actionIdx]

		startLine, startCol, startPos := lx.curLine, lx.curCol, lx.pos
		lx.advanceText(lexeme)

		lx.yytext = lexeme
		lx.yyleng = len(lexeme)
		lx.yylineno = startLine
		lx.yylloc = parse.Location{
			FirstLine: startLine, LastLine: lx.curLine,
			FirstColumn: startCol, LastColumn: lx.curCol,
			HasRange: true, Range: [2]int{startPos, lx.pos},
		}

		switch act.Type {
		case ActionNone:
			continue
		case ActionScan:
			return act.Terminal, true
		case ActionState:
			lx.state = act.State
		case ActionScanAndState:
			lx.state = act.State
			return act.Terminal, true
		}
	}
}

func (lx *Lexer) advanceRune() {
	r, size := utf8.DecodeRuneInString(lx.text[lx.pos:])
	if size == 0 {
		lx.pos = len(lx.text)
		return
	}
	lx.pos += size
	if r == '\n' {
		lx.curLine++
		lx.curCol = 1
		lx.curFullLine = ""
	} else {
		lx.curCol++
		lx.curFullLine += string(r)
	}
}

func (lx *Lexer) advanceText(s string) {
	for _, r := range s {
		lx.pos += utf8.RuneLen(r)
		if r == '\n' {
			lx.curLine++
			lx.curCol = 1
			lx.curFullLine = ""
		} else {
			lx.curCol++
			lx.curFullLine += string(r)
		}
	}
}

// selectMatch picks which capturing group matched, preferring the longest
// lexeme and, on ties, the earliest-declared pattern (gnu lex semantics),
// ported from lazy.go's selectMatch. As there, a blank submatch is
// indistinguishable from a non-match; a pattern that can legitimately
// match the empty string will never be selected over one that matched any
// text at all.
func selectMatch(candidates []string) (int, string) {
	found := map[int]string{}
	for i := 1; i < len(candidates); i++ {
		if candidates[i] != "" {
			found[i-1] = candidates[i]
		}
	}

	if len(found) > 1 {
		longest := 0
		for _, m := range found {
			if n := utf8.RuneCountInString(m); n > longest {
				longest = n
			}
		}
		for i, m := range found {
			if utf8.RuneCountInString(m) != longest {
				delete(found, i)
			}
		}
		if len(found) > 1 {
			lowest := math.MaxInt
			for i := range found {
				if i < lowest {
					lowest = i
				}
			}
			found = map[int]string{lowest: found[lowest]}
		}
	}

	for i, m := range found {
		return i, m
	}
	return 0, ""
}

// Text is yytext: the lexeme of the most recent Lex call.
func (lx *Lexer) Text() string { return lx.yytext }

// Len is yyleng.
func (lx *Lexer) Len() int { return lx.yyleng }

// Line is yylineno.
func (lx *Lexer) Line() int { return lx.yylineno }

// Loc is yylloc.
func (lx *Lexer) Loc() parse.Location { return lx.yylloc }

// ShowPosition renders the current line with a caret under the lexeme's
// start column, for inclusion in a syntax error message.
func (lx *Lexer) ShowPosition() string {
	col := lx.yylloc.FirstColumn
	if col < 1 {
		col = 1
	}
	return fmt.Sprintf("%s\n%s^", lx.curFullLine, strings.Repeat(" ", col-1))
}
