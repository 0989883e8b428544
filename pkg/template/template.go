// Package template provides {{field}} interpolation over trigger-context data.
package template

import (
	"regexp"

	"github.com/lumamark/relay/pkg/models"
)

var tokenPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// ReplaceVariables substitutes every {{field}} token in the template with the
// stringified value from fields. Unresolved tokens are left literal; a missing
// field is not an error.
func ReplaceVariables(tmpl string, fields map[string]any) string {
	return tokenPattern.ReplaceAllStringFunc(tmpl, func(token string) string {
		key := tokenPattern.FindStringSubmatch(token)[1]

		value, ok := fields[key]
		if !ok || value == nil {
			return token
		}

		return models.Stringify(value)
	})
}

// RenderWithContext interpolates a step config string against the run's
// execution context, run variables shadowing trigger data.
func RenderWithContext(tmpl string, execCtx *models.ExecutionContext) string {
	return ReplaceVariables(tmpl, execCtx.Fields())
}
