package parse

import (
	"fmt"
	"strings"

	"github.com/sablefin/lalrgen/internal/util"
)

// SyntaxError is the structured payload spec §7's propagation policy
// requires for runtime parse errors: the offending text, the unexpected
// terminal, the source position, and the set of terminals that would have
// been accepted instead.
type SyntaxError struct {
	Message     string
	Text        string
	Terminal    string
	Line        int
	Loc         Location
	Expected    []string
	Recoverable bool
	position    string
}

func (e *SyntaxError) Error() string {
	return e.Message
}

// FullMessage appends the source-excerpt position (lexer.ShowPosition(),
// when non-empty) to Message, for presentation to a human.
func (e *SyntaxError) FullMessage() string {
	if e.position == "" {
		return e.Message
	}
	return e.Message + "\n" + e.position
}

func newSyntaxError(text, terminal string, line int, loc Location, expected []string, position string, recoverable bool) *SyntaxError {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("unexpected %q", text))
	if len(expected) > 0 {
		sb.WriteString("; expected ")
		// MakeTextList rewrites its argument's last element, so it gets a
		// copy and Expected keeps the bare terminal names.
		sb.WriteString(util.MakeTextList(append([]string(nil), expected...)))
	}

	return &SyntaxError{
		Message:     sb.String(),
		Text:        text,
		Terminal:    terminal,
		Line:        line,
		Loc:         loc,
		Expected:    expected,
		Recoverable: recoverable,
		position:    position,
	}
}
