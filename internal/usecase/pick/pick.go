// Package pick selects fields of a generated question artifact with JSONPath.
package pick

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
)

// Apply evaluates rules (name -> JSONPath) against body.
//
// If body is not JSON every rule fails. A failing rule is reported in its
// PickResult; other rules still run.
func Apply(body []byte, rules map[string]string) (map[string]string, []domain.PickResult) {
	if len(rules) == 0 {
		return map[string]string{}, []domain.PickResult{}
	}

	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc, err := parseJSON(body)
	if err != nil {
		out := make([]domain.PickResult, 0, len(keys))
		for _, name := range keys {
			expr := strings.TrimSpace(rules[name])
			out = append(out, domain.PickResult{
				Name:    name,
				Expr:    expr,
				Message: fmt.Sprintf("pick %q (%s): artifact is not valid JSON", name, expr),
			})
		}
		return map[string]string{}, out
	}

	picked := map[string]string{}
	results := make([]domain.PickResult, 0, len(keys))

	for _, name := range keys {
		expr := strings.TrimSpace(rules[name])
		res := domain.PickResult{Name: name, Expr: expr}

		if expr == "" {
			res.Message = fmt.Sprintf("pick %q: empty jsonpath expression", name)
			results = append(results, res)
			continue
		}

		val, getErr := jsonpath.Get(expr, doc)
		if getErr != nil {
			res.Message = fmt.Sprintf("pick %q (%s): jsonpath error: %v", name, expr, getErr)
			results = append(results, res)
			continue
		}

		if isEmptyValue(val) {
			res.Message = fmt.Sprintf("pick %q (%s): no value found", name, expr)
			results = append(results, res)
			continue
		}

		s, convErr := toString(val)
		if convErr != nil {
			res.Message = fmt.Sprintf("pick %q (%s): cannot convert value to string: %v", name, expr, convErr)
			results = append(results, res)
			continue
		}

		picked[name] = s
		res.Success = true
		res.Message = fmt.Sprintf("picked %q", name)
		results = append(results, res)
	}

	return picked, results
}

// ParseRules turns "name=$.expr" flags into rules. A bare expression is named after itself.
func ParseRules(flags []string) (map[string]string, error) {
	rules := make(map[string]string, len(flags))
	for _, f := range flags {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}

		name, expr := f, f
		if i := strings.Index(f, "="); i > 0 && !strings.HasPrefix(f, "$") {
			name, expr = strings.TrimSpace(f[:i]), strings.TrimSpace(f[i+1:])
		}
		if expr == "" {
			return nil, &domain.OpError{
				Op:   "pick.parse",
				Kind: domain.KindInvalidConfig,
				Err:  fmt.Errorf("pick %q: empty jsonpath expression: %w", name, domain.ErrInvalidConfig),
			}
		}
		if _, dup := rules[name]; dup {
			return nil, &domain.OpError{
				Op:   "pick.parse",
				Kind: domain.KindInvalidConfig,
				Err:  fmt.Errorf("pick %q declared twice: %w", name, domain.ErrInvalidConfig),
			}
		}
		rules[name] = expr
	}
	return rules, nil
}

func parseJSON(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	// Common case: jsonpath returns a slice with 1 element
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return "", fmt.Errorf("empty array")
		}
		if len(arr) == 1 {
			return toString(arr[0])
		}
		b, err := json.Marshal(arr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return fmt.Sprint(t), nil
	case bool:
		return fmt.Sprint(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
