package parse

import (
	"fmt"

	"github.com/sablefin/lalrgen/grammar"
)

// ActionResult is what a semantic action returns when a reduction invokes
// it, the compiled-dispatch reading of spec §9's "Action bodies" design
// note: Value becomes `$$`/yyval.$, Loc becomes `@$`/yyval._$ (left zero to
// take the merged first/last span automatically), and Halt/Accept encode an
// early-return control directive (YYACCEPT/YYABORT rewritten to "return
// true"/"return false" by grammar.rewriteAction).
type ActionResult struct {
	Value  any
	Loc    Location
	Halt   bool
	Accept bool
}

// PerformAction invokes the semantic action grouped for production p (spec
// §4.1.5). yytext/yyleng/yylineno are the lexer's fields at the moment of
// reduction; yy is the shared context map threaded through the whole parse;
// values/locs span the production's rhs, oldest first.
type PerformAction func(yytext string, yyleng, yylineno int, yy map[string]any, p grammar.ProdID, values []any, locs []Location) ActionResult

// Parser is the runtime (C8) half of the pipeline: a table plus a
// semantic-action dispatcher, holding no state itself between calls to
// Parse (spec §9 "a distinct Parser value that holds only the
// runtime-relevant subset (tables + lexer slot)").
type Parser struct {
	Grammar       *grammar.Grammar
	Table         *Table
	PerformAction PerformAction
	Trace         func(string)
}

func (p *Parser) notifyTrace(format string, args ...any) {
	if p.Trace != nil {
		p.Trace(fmt.Sprintf(format, args...))
	}
}

// recoveryStateAvailable reports whether any state on the stack has a shift
// on the reserved error terminal, i.e. whether a caller-driven panic-mode
// recovery (spec §7's recoverable-error signaling hook) could resume
// parsing from here. Actually performing that recovery is out of scope
// (spec §1 Non-goals: "error recovery beyond a single recoverable-error
// signaling hook"); this only reports the possibility via
// SyntaxError.Recoverable.
func (p *Parser) recoveryStateAvailable(stateStack []int) bool {
	for i := len(stateStack) - 1; i >= 0; i-- {
		if p.Table.Action(stateStack[i], grammar.SymError).Type == ActionShift {
			return true
		}
	}
	return false
}

// Parse drives the shift/reduce/accept loop of spec §4.8 over lex, with yy
// threaded through every semantic action and every call to lex.SetInput.
func (p *Parser) Parse(lex Lexer, input string, yy map[string]any) (any, error) {
	if yy == nil {
		yy = make(map[string]any)
	}
	lex.SetInput(input, yy)

	stateStack := []int{0}
	valueStack := []any{nil}
	locStack := []Location{{}}

	var symbol grammar.SymbolID
	var text string
	var leng, lineno int
	var loc Location
	haveSymbol := false

	advance := func() error {
		name, ok := lex.Lex()
		text, leng, lineno, loc = lex.Text(), lex.Len(), lex.Line(), lex.Loc()
		if !ok {
			symbol = grammar.SymEnd
			haveSymbol = true
			return nil
		}
		id, known := p.Grammar.Symbols.Lookup(name)
		if !known || !p.Grammar.IsTerminal(id) {
			return fmt.Errorf("parse: lexer produced unknown terminal %q", name)
		}
		symbol = id
		haveSymbol = true
		return nil
	}

	for {
		s := stateStack[len(stateStack)-1]

		var action Action
		if def, isDefault := p.Table.DefaultActions[s]; isDefault {
			action = def
		} else {
			if !haveSymbol {
				if err := advance(); err != nil {
					return nil, err
				}
				p.notifyTrace("lex: %q as %s", text, p.Grammar.Symbols.Name(symbol))
			}
			action = p.Table.Action(s, symbol)
			if len(p.Table.Cell(s, symbol).Alternatives) > 0 {
				return nil, fmt.Errorf("parse: ambiguous table cell at state %d on %s", s, p.Grammar.Symbols.Name(symbol))
			}
		}

		switch action.Type {
		case ActionError:
			expected := p.Table.ExpectedTerminals(s)
			names := make([]string, len(expected))
			copy(names, expected)
			recoverable := p.recoveryStateAvailable(stateStack)
			return nil, newSyntaxError(text, p.Grammar.Symbols.Name(symbol), lineno, loc, names, lex.ShowPosition(), recoverable)

		case ActionShift:
			p.notifyTrace("states.push(): %d", action.State)
			valueStack = append(valueStack, text)
			locStack = append(locStack, loc)
			stateStack = append(stateStack, action.State)
			haveSymbol = false

		case ActionReduce:
			prod := p.Grammar.Production(action.Production)
			n := prod.Len()

			vals := append([]any(nil), valueStack[len(valueStack)-n:]...)
			locs := append([]Location(nil), locStack[len(locStack)-n:]...)
			merged := mergeLocations(locs)

			result := p.PerformAction(text, leng, lineno, yy, action.Production, vals, locs)
			if result.Halt {
				if result.Accept {
					return result.Value, nil
				}
				return nil, fmt.Errorf("parse: action aborted during reduction of production %d", action.Production)
			}

			stateStack = stateStack[:len(stateStack)-n]
			valueStack = valueStack[:len(valueStack)-n]
			locStack = locStack[:len(locStack)-n]

			t := stateStack[len(stateStack)-1]
			target, ok := p.Table.Goto(t, prod.LHS)
			if !ok {
				return nil, fmt.Errorf("parse: no GOTO from state %d on %s", t, p.Grammar.Symbols.Name(prod.LHS))
			}

			resultLoc := result.Loc
			if resultLoc == (Location{}) {
				resultLoc = merged
			}

			valueStack = append(valueStack, result.Value)
			locStack = append(locStack, resultLoc)
			stateStack = append(stateStack, target)
			p.notifyTrace("reduce: %s", prod.String(p.Grammar.Symbols))

		case ActionAccept:
			return valueStack[len(valueStack)-1], nil
		}
	}
}
