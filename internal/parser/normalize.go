package parser

import (
	"regexp"
	"strings"
)

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	parenParen = regexp.MustCompile(`\)\(`)
	numParen   = regexp.MustCompile(`(^|[^A-Za-z0-9_.])([0-9]+\.?[0-9]*)\(`)
	identRef   = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*`)
	identOpen  = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\(`)
)

// normalize rewrites an expression into the canonical form the tokenizer
// expects: `**` becomes `^`, runs of whitespace collapse to nothing, and
// implicit multiplication against an opening parenthesis becomes explicit.
// `2(t+1)` and `y(t+1)` become `2*(t+1)` and `y*(t+1)`; `sin(` is left
// alone because sin is a known function name.
func normalize(expr string) string {
	s := strings.TrimSpace(expr)
	s = strings.ReplaceAll(s, "**", "^")
	s = spaceRun.ReplaceAllString(s, "")
	s = parenParen.ReplaceAllString(s, ")*(")
	s = numParen.ReplaceAllString(s, "$1$2*(")
	s = identOpen.ReplaceAllStringFunc(s, func(m string) string {
		name := m[:len(m)-1]
		if isFunction(name) {
			return m
		}
		return name + "*("
	})
	return s
}

// identifiers extracts every identifier token from a normalized expression,
// in order of first appearance, excluding function and constant names.
// The scan is word-boundary anchored, so the exponent of a scientific
// literal like 1e3 is never extracted as an identifier.
func identifiers(expr string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range identRef.FindAllString(expr, -1) {
		if isFunction(id) || isConstant(id) || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
