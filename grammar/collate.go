package grammar

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortedNames returns every interned symbol's display name in
// locale-correct alphabetic order, for callers that want a human-readable
// listing rather than raw insertion order. Nothing in this module calls it:
// a syntax error's expected-terminal list and Table.String both use
// declaration order. This is
// strictly a presentation concern: nothing about symbol interning,
// production numbering, or table construction may depend on it, since
// insertion order is what spec §5 requires for deterministic generation.
func (t *SymbolTable) SortedNames() []string {
	names := make([]string, len(t.byID))
	for i, sym := range t.byID {
		names[i] = sym.Name
	}

	col := collate.New(language.Und)
	col.SortStrings(names)
	return names
}
