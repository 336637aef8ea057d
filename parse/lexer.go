package parse

// Location is the position information threaded alongside every stack value,
// matching the `yylloc` shape spec §6 requires of a lexer: a line/column
// span plus an optional byte range.
type Location struct {
	FirstLine   int
	LastLine    int
	FirstColumn int
	LastColumn  int

	// HasRange is set when Range carries a meaningful byte offset span
	// (spec §6 "optional options.ranges").
	HasRange bool
	Range    [2]int
}

// Lexer is the external collaborator spec §1 keeps out of the generator's
// core: the table-driven loop only ever calls these methods, never
// implements lexical analysis itself (spec §6 "Lexer contract").
type Lexer interface {
	// SetInput primes the lexer with the text to scan and the shared `yy`
	// context map threaded through every semantic action.
	SetInput(text string, yy map[string]any)

	// Lex returns the name of the next terminal and true, or ("", false) at
	// end of input ("falsy" lex result in spec §6, substituted with $end by
	// the caller).
	Lex() (terminal string, ok bool)

	// Text is yytext: the lexeme of the most recent Lex call.
	Text() string

	// Len is yyleng: len(Text()), tracked separately since some lexers
	// report a byte length that differs from the lexeme slice itself.
	Len() int

	// Line is yylineno: the 1-indexed line the most recent token started on.
	Line() int

	// Loc is yylloc: the full location span of the most recent token.
	Loc() Location

	// ShowPosition renders a source-excerpt diagnostic for the current
	// position, used in syntax error messages when non-empty.
	ShowPosition() string
}

func mergeLocations(locs []Location) Location {
	if len(locs) == 0 {
		return Location{}
	}
	first, last := locs[0], locs[len(locs)-1]
	merged := Location{
		FirstLine:   first.FirstLine,
		FirstColumn: first.FirstColumn,
		LastLine:    last.LastLine,
		LastColumn:  last.LastColumn,
	}
	if first.HasRange && last.HasRange {
		merged.HasRange = true
		merged.Range = [2]int{first.Range[0], last.Range[1]}
	}
	return merged
}
