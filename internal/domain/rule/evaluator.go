package rule

import (
	"sort"
	"strconv"
	"strings"
)

// Evaluate checks a request's normalized field map against a set of rules
// and returns the first full match. Rules are filtered to active ones and
// evaluated in descending priority order; all conditions of a rule must hold
// (ANDed). No match means the normal workflow proceeds.
//
// Evaluation fails closed: a missing field, a non-numeric operand under a
// numeric comparator, an unknown operator or a condition-less rule never
// match and never error.
func Evaluate(fields map[string]interface{}, rules []Rule) (*Rule, bool) {
	active := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.IsActive && len(r.Conditions) > 0 {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})

	for i := range active {
		if matches(fields, active[i].Conditions) {
			return &active[i], true
		}
	}
	return nil, false
}

func matches(fields map[string]interface{}, conditions []Condition) bool {
	for _, c := range conditions {
		if !matchCondition(fields, c) {
			return false
		}
	}
	return true
}

func matchCondition(fields map[string]interface{}, c Condition) bool {
	// Nested field paths are not supported; a dotted path never resolves.
	if strings.Contains(c.Field, ".") {
		return false
	}
	val, ok := fields[c.Field]
	if !ok || val == nil {
		// notEquals against an absent field is the one comparison that can
		// still hold: the field is definitionally not equal.
		return c.Operator == OpNotEquals && c.Value != nil
	}

	switch c.Operator {
	case OpEquals:
		return equalValues(val, c.Value)
	case OpNotEquals:
		return !equalValues(val, c.Value)
	case OpGreaterThan:
		a, aok := toFloat(val)
		b, bok := toFloat(c.Value)
		return aok && bok && a > b
	case OpLessThan:
		a, aok := toFloat(val)
		b, bok := toFloat(c.Value)
		return aok && bok && a < b
	case OpContains:
		s, sok := toString(val)
		sub, subok := toString(c.Value)
		return sok && subok && strings.Contains(s, sub)
	default:
		return false
	}
}

// equalValues compares numerically when both sides are numeric, otherwise as
// strings. JSON decoding turns all numbers into float64, so "5" in a rule
// still matches an int 5 on the request.
func equalValues(a, b interface{}) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	as, aok := toString(a)
	bs, bok := toString(b)
	return aok && bok && as == bs
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}
