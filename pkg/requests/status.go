package requests

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oshokin/reqcheck/pkg/matcher"
)

// Static error definitions for better error handling.
var (
	// ErrInvalidStatusExpectation indicates that a status expectation cannot be parsed.
	ErrInvalidStatusExpectation = errors.New("invalid status code expectation")
)

const statusClassSuffix = "xx"

// Is2xx matches status codes in [200, 299].
func Is2xx() matcher.Matcher {
	return statusClass(2)
}

// Is3xx matches status codes in [300, 399].
func Is3xx() matcher.Matcher {
	return statusClass(3)
}

// Is4xx matches status codes in [400, 499].
func Is4xx() matcher.Matcher {
	return statusClass(4)
}

// Is5xx matches status codes in [500, 599].
func Is5xx() matcher.Matcher {
	return statusClass(5)
}

func statusClass(class int) matcher.Matcher {
	low := class * 100

	return matcher.Described(matcher.IsBetween(low, low+99), fmt.Sprintf("to be %d%s", class, statusClassSuffix))
}

// ParseStatusExpectation parses "2xx", "201", "200-204" or a comma-separated list of those.
// An empty expectation means 2xx.
func ParseStatusExpectation(expectation string) (matcher.Matcher, error) {
	expectation = strings.TrimSpace(expectation)
	if expectation == "" {
		return Is2xx(), nil
	}

	items := strings.Split(expectation, ",")
	if len(items) == 1 {
		return parseStatusItem(items[0])
	}

	alternatives := make([]any, 0, len(items))

	for _, item := range items {
		m, err := parseStatusItem(item)
		if err != nil {
			return nil, err
		}

		alternatives = append(alternatives, m)
	}

	return matcher.AnyOf(alternatives...), nil
}

func parseStatusItem(item string) (matcher.Matcher, error) {
	item = strings.ToLower(strings.TrimSpace(item))

	if class, ok := strings.CutSuffix(item, statusClassSuffix); ok {
		value, err := strconv.Atoi(class)
		if err != nil || value < 1 || value > 5 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatusExpectation, item)
		}

		return statusClass(value), nil
	}

	if low, high, ok := strings.Cut(item, "-"); ok {
		lowCode, err := parseStatusCode(low)
		if err != nil {
			return nil, err
		}

		highCode, err := parseStatusCode(high)
		if err != nil {
			return nil, err
		}

		if lowCode > highCode {
			return nil, fmt.Errorf("%w: %q has its bounds reversed", ErrInvalidStatusExpectation, item)
		}

		return matcher.IsBetween(lowCode, highCode), nil
	}

	code, err := parseStatusCode(item)
	if err != nil {
		return nil, err
	}

	return matcher.EqualTo(code), nil
}

func parseStatusCode(value string) (int, error) {
	code, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || code < 100 || code > 599 {
		return 0, fmt.Errorf("%w: %q is not a status code", ErrInvalidStatusExpectation, value)
	}

	return code, nil
}
