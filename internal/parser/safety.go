package parser

import (
	"fmt"
	"strings"
)

// denylist rejects fragments associated with code injection or control-flow
// smuggling. The tree interpreter has no ambient state to reach, so this is
// defense in depth on top of the variable whitelist, not the safety boundary
// itself.
var denylist = []string{
	"import",
	"require",
	"eval",
	"function",
	"while",
	"for",
	"if",
	"var ",
	"let ",
	"const ",
	"=>",
	"..",
	"__",
	"prototype",
}

// ValidateExpression is a pure textual filter, independent of compilation.
func ValidateExpression(expression string) error {
	lower := strings.ToLower(expression)
	for _, fragment := range denylist {
		if strings.Contains(lower, fragment) {
			return fmt.Errorf("expression contains forbidden fragment %q", strings.TrimSpace(fragment))
		}
	}
	return nil
}
