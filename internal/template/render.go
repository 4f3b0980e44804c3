package template

import (
	"fmt"
	"regexp"
	"strings"
)

// The placeholder vocabulary templates may use.
var allowedVariables = []string{"name", "balance", "amount"}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z]+)\}`)

// ExtractVariables lists the placeholders used in a template body.
func ExtractVariables(content string) []string {
	matches := placeholderRe.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool)
	vars := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			vars = append(vars, m[1])
		}
	}
	return vars
}

// ValidateContent rejects placeholders outside the allowed vocabulary.
func ValidateContent(content string) error {
	for _, v := range ExtractVariables(content) {
		allowed := false
		for _, a := range allowedVariables {
			if v == a {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("unknown placeholder {%s}, allowed: {name}, {balance}, {amount}", v)
		}
	}
	return nil
}

// Render substitutes placeholder values into a template body. Placeholders
// without a value are left untouched.
func Render(content string, values map[string]string) string {
	out := content
	for k, v := range values {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
