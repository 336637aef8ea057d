package grammar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ActionGroup is one distinct action body shared by one or more productions
// (spec §4.1.5): the emitted action dispatcher gets one arm per
// ActionGroup, switching on production id.
type ActionGroup struct {
	Body        string
	Productions []ProdID
}

// GroupActions partitions g's productions by identical (post-rewrite) action
// body, in order of first appearance, so a caller-built dispatcher needs only
// one arm per distinct body (spec §4.1.5).
func (g *Grammar) GroupActions() []ActionGroup {
	index := make(map[string]int)
	var groups []ActionGroup

	for _, p := range g.Productions {
		if i, ok := index[p.Action]; ok {
			groups[i].Productions = append(groups[i].Productions, p.ID)
			continue
		}
		index[p.Action] = len(groups)
		groups = append(groups, ActionGroup{Body: p.Action, Productions: []ProdID{p.ID}})
	}

	return groups
}

var stackRefPattern = regexp.MustCompile(`\$(\$|-?\d+|[A-Za-z_][A-Za-z0-9_]*)|@(\$|-?\d+|[A-Za-z_][A-Za-z0-9_]*)`)

// rewriteAction rewrites a raw action body's stack/location references and
// control directives into the canonical form the runtime dispatcher expects
// (spec §4.1.3):
//
//   - $$          -> the result slot
//   - $k (1-based)-> stack slot offset k - rhsLen
//   - $name       -> $k, where k is name's 1-based position (from aliases)
//   - @k, @name, @$ -> the equivalent location-slot references
//   - YYABORT     -> "return false"
//   - YYACCEPT    -> "return true"
//
// aliases maps an alias name to its 1-based rhs position; repeats of the
// same base symbol name (with no explicit alias) are captured by the caller
// as name, name1, name2, ... with the first occurrence also aliased as
// name1 (spec §4.1.3).
func rewriteAction(body string, rhsLen int, aliases map[string]int) string {
	body = strings.ReplaceAll(body, "YYACCEPT", "return true")
	body = strings.ReplaceAll(body, "YYABORT", "return false")

	return stackRefPattern.ReplaceAllStringFunc(body, func(match string) string {
		sigil := match[0]
		ref := match[1:]

		if ref == "$" {
			if sigil == '$' {
				return "$$"
			}
			return "@$"
		}

		if n, err := strconv.Atoi(ref); err == nil {
			if sigil == '$' {
				return fmt.Sprintf("$%d", n-rhsLen)
			}
			return fmt.Sprintf("@%d", n-rhsLen)
		}

		pos, ok := aliases[ref]
		if !ok {
			// not a known alias; leave untouched, it's either a free
			// identifier in the host language or a typo the caller will
			// have to diagnose themselves (the core does no semantic
			// validation of action bodies).
			return match
		}
		if sigil == '$' {
			return fmt.Sprintf("$%d", pos-rhsLen)
		}
		return fmt.Sprintf("@%d", pos-rhsLen)
	})
}

// splitRHS splits an Alt's whitespace-delimited rhs string into base symbol
// names, stripping `Sym[alias]` bracket forms and recording alias -> 1-based
// position into aliases. Every occurrence is also aliased by its base symbol
// name: the first as both name (unless an explicit alias already took it)
// and name1, later ones as name2, name3, ...
func splitRHS(rhs string, aliases map[string]int) []string {
	fields := strings.Fields(rhs)
	names := make([]string, 0, len(fields))
	counts := make(map[string]int)

	for i, f := range fields {
		base := f
		alias := ""

		if open := strings.IndexByte(f, '['); open >= 0 && strings.HasSuffix(f, "]") {
			base = f[:open]
			alias = f[open+1 : len(f)-1]
		}

		if base == "ε" || base == "epsilon" {
			continue
		}

		names = append(names, base)
		pos := i + 1

		counts[base]++
		n := counts[base]

		if alias != "" {
			aliases[alias] = pos
		}
		// first occurrence is always aliased to the bare name; repeats get
		// a numeric suffix, and the first occurrence is *also* given the
		// "name1" form so a grammar with exactly one repeat doesn't force
		// the writer to guess which instance is unadorned.
		if n == 1 {
			if _, taken := aliases[base]; !taken {
				aliases[base] = pos
			}
		}
		aliases[fmt.Sprintf("%s%d", base, n)] = pos
	}

	return names
}
