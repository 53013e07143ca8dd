package requests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/reqcheck/pkg/matcher"
)

// TestStatusClasses tests the class matchers at their boundaries.
func TestStatusClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		matcher     matcher.Matcher
		description string
		inside      []int
		outside     []int
	}{
		{name: "2xx", matcher: Is2xx(), description: "to be 2xx", inside: []int{200, 250, 299}, outside: []int{199, 300}},
		{name: "3xx", matcher: Is3xx(), description: "to be 3xx", inside: []int{300, 399}, outside: []int{299, 400}},
		{name: "4xx", matcher: Is4xx(), description: "to be 4xx", inside: []int{400, 499}, outside: []int{399, 500}},
		{name: "5xx", matcher: Is5xx(), description: "to be 5xx", inside: []int{500, 599}, outside: []int{499, 600}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.description, tt.matcher.Description())

			for _, code := range tt.inside {
				assert.True(t, tt.matcher.Match(code).Passed, code)
			}

			for _, code := range tt.outside {
				assert.False(t, tt.matcher.Match(code).Passed, code)
			}
		})
	}
}

// TestParseStatusExpectation tests the accepted expectation syntaxes.
func TestParseStatusExpectation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		description string
		matches     []int
		misses      []int
		wantErr     bool
	}{
		{name: "empty", input: "", description: "to be 2xx", matches: []int{204}, misses: []int{301}},
		{name: "class", input: "4XX", description: "to be 4xx", matches: []int{404}, misses: []int{500}},
		{name: "code", input: "201", description: "to be equal to 201", matches: []int{201}, misses: []int{200}},
		{name: "range", input: "200-204", description: "to be between 200 and 204", matches: []int{204}, misses: []int{205}},
		{
			name:        "list",
			input:       "200, 3xx",
			description: "to be equal to 200 or to be 3xx",
			matches:     []int{200, 302},
			misses:      []int{201},
		},
		{name: "bad class", input: "7xx", wantErr: true},
		{name: "bad code", input: "abc", wantErr: true},
		{name: "reversed range", input: "204-200", wantErr: true},
		{name: "bad list item", input: "200,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := ParseStatusExpectation(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidStatusExpectation)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.description, m.Description())

			for _, code := range tt.matches {
				assert.True(t, m.Match(code).Passed, code)
			}

			for _, code := range tt.misses {
				assert.False(t, m.Match(code).Passed, code)
			}
		})
	}
}
