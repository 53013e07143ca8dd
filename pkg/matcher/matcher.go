package matcher

import (
	"fmt"
	"reflect"
	"strings"
)

// Matcher describes an expectation and evaluates a value against it.
type Matcher interface {
	// Description returns the expectation text, e.g. "to be equal to 201".
	Description() string
	// Match evaluates actual against the expectation.
	Match(actual any) Result
}

// Result is the outcome of a match.
type Result struct {
	// Passed is true when the value satisfied the matcher.
	Passed bool
	// Description describes the actual value, e.g. "got 200".
	Description string
}

// String implements fmt.Stringer.
func (r Result) String() string {
	return r.Description
}

// gotResult builds a Result with the conventional "got <value>" description.
func gotResult(passed bool, actual any) Result {
	return Result{
		Passed:      passed,
		Description: "got " + formatValue(actual),
	}
}

type equalTo struct {
	expected any
}

// EqualTo matches values equal to expected. Numeric values of different Go types
// are compared by value, so EqualTo(201) matches an int64 or uint16 201.
func EqualTo(expected any) Matcher {
	return &equalTo{expected: expected}
}

func (m *equalTo) Description() string {
	return "to be equal to " + formatValue(m.expected)
}

func (m *equalTo) Match(actual any) Result {
	return gotResult(valuesEqual(m.expected, actual), actual)
}

type between struct {
	low, high float64
	desc      string
}

// IsBetween matches numbers within [low, high], both bounds included.
func IsBetween(low, high int) Matcher {
	return &between{
		low:  float64(low),
		high: float64(high),
		desc: fmt.Sprintf("to be between %d and %d", low, high),
	}
}

func (m *between) Description() string {
	return m.desc
}

func (m *between) Match(actual any) Result {
	value, ok := toFloat(actual)

	return gotResult(ok && value >= m.low && value <= m.high, actual)
}

// Is accepts either a Matcher, returned unchanged, or a literal that is wrapped with EqualTo.
func Is(expected any) Matcher {
	if m, ok := expected.(Matcher); ok {
		return m
	}

	return EqualTo(expected)
}

type described struct {
	Matcher
	desc string
}

// Described overrides the description of m while keeping its matching logic.
func Described(m Matcher, description string) Matcher {
	return &described{Matcher: m, desc: description}
}

func (m *described) Description() string {
	return m.desc
}

type anyOf struct {
	matchers []Matcher
}

// AnyOf matches when at least one of the given matchers or literals matches.
func AnyOf(expected ...any) Matcher {
	return &anyOf{matchers: toMatchers(expected)}
}

func (m *anyOf) Description() string {
	return joinDescriptions(m.matchers, "or")
}

func (m *anyOf) Match(actual any) Result {
	for _, sub := range m.matchers {
		if sub.Match(actual).Passed {
			return gotResult(true, actual)
		}
	}

	return gotResult(false, actual)
}

type allOf struct {
	matchers []Matcher
}

// AllOf matches when every given matcher or literal matches.
func AllOf(expected ...any) Matcher {
	return &allOf{matchers: toMatchers(expected)}
}

func (m *allOf) Description() string {
	return joinDescriptions(m.matchers, "and")
}

func (m *allOf) Match(actual any) Result {
	for _, sub := range m.matchers {
		if !sub.Match(actual).Passed {
			return gotResult(false, actual)
		}
	}

	return gotResult(true, actual)
}

type not struct {
	matcher Matcher
}

// Not negates a matcher or literal.
func Not(expected any) Matcher {
	return &not{matcher: Is(expected)}
}

func (m *not) Description() string {
	return "not " + m.matcher.Description()
}

func (m *not) Match(actual any) Result {
	result := m.matcher.Match(actual)
	result.Passed = !result.Passed

	return result
}

func toMatchers(expected []any) []Matcher {
	result := make([]Matcher, 0, len(expected))
	for _, e := range expected {
		result = append(result, Is(e))
	}

	return result
}

// joinDescriptions renders "a, b or c".
func joinDescriptions(matchers []Matcher, conjunction string) string {
	switch len(matchers) {
	case 0:
		return ""
	case 1:
		return matchers[0].Description()
	}

	descriptions := make([]string, 0, len(matchers))
	for _, m := range matchers {
		descriptions = append(descriptions, m.Description())
	}

	last := len(descriptions) - 1

	return strings.Join(descriptions[:last], ", ") + " " + conjunction + " " + descriptions[last]
}

func formatValue(value any) string {
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	return fmt.Sprint(value)
}

func valuesEqual(expected, actual any) bool {
	left, leftNumeric := toFloat(expected)
	right, rightNumeric := toFloat(actual)

	if leftNumeric && rightNumeric {
		return left == right
	}

	return reflect.DeepEqual(expected, actual)
}

func toFloat(value any) (float64, bool) {
	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}
