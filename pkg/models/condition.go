// Condition evaluation for CONDITION steps.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Condition compares one trigger-context field against a literal value.
type Condition struct {
	Variable string `json:"variable" validate:"required"`
	Operator string `json:"operator" validate:"required"`
	Value    string `json:"value"`
}

// Supported condition operators.
const (
	OpContains   = "contains"
	OpEquals     = "equals"
	OpNotEquals  = "not_equals"
	OpStartsWith = "starts_with"
	OpEndsWith   = "ends_with"
	OpGreater    = "gt"
	OpLess       = "lt"
)

// ConditionFromConfig builds a Condition from a CONDITION step's config map.
func ConditionFromConfig(config map[string]any) Condition {
	cond := Condition{
		Variable: "email",
		Operator: OpContains,
	}

	if v, ok := config["variable"].(string); ok && v != "" {
		cond.Variable = v
	}

	if v, ok := config["operator"].(string); ok && v != "" {
		cond.Operator = v
	}

	if v, ok := config["value"]; ok {
		cond.Value = Stringify(v)
	}

	return cond
}

// Evaluate resolves the variable from the execution context and applies the
// operator. A missing variable evaluates against the empty string rather than
// erroring: absent fields are expected in dynamically keyed trigger data.
func (c Condition) Evaluate(execCtx *ExecutionContext) (bool, error) {
	raw, _ := execCtx.Lookup(c.Variable)
	actual := Stringify(raw)

	switch c.Operator {
	case OpContains:
		return strings.Contains(actual, c.Value), nil
	case OpEquals:
		return actual == c.Value, nil
	case OpNotEquals:
		return actual != c.Value, nil
	case OpStartsWith:
		return strings.HasPrefix(actual, c.Value), nil
	case OpEndsWith:
		return strings.HasSuffix(actual, c.Value), nil
	case OpGreater, OpLess:
		left, err := strconv.ParseFloat(actual, 64)
		if err != nil {
			return false, fmt.Errorf("condition variable %q is not numeric: %w", c.Variable, err)
		}

		right, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return false, fmt.Errorf("condition value %q is not numeric: %w", c.Value, err)
		}

		if c.Operator == OpGreater {
			return left > right, nil
		}

		return left < right, nil
	default:
		return false, fmt.Errorf("unsupported condition operator %q", c.Operator)
	}
}

// Stringify renders a dynamically typed context value the way it would appear
// in an interpolated template.
func Stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		// JSON numbers decode as float64; render integers without the decimal point.
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}

		return strconv.FormatFloat(value, 'f', -1, 64)
	case time.Time:
		return value.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", value)
	}
}
