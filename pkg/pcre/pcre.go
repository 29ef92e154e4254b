// Package pcre matches Perl-compatible regular expressions against captured
// text and reports mismatches as test failures.
package pcre

import (
	"fmt"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/shini4i/testkit/internal/helpers"
	"github.com/shini4i/testkit/pkg/failure"
	"github.com/stretchr/testify/assert"
)

const (
	// excerptLimit bounds how much of the text a failure message quotes.
	excerptLimit = 512
	matchTimeout = 10 * time.Second
)

var compiled sync.Map

func compile(pattern string) (*regexp2.Regexp, error) {
	if re, ok := compiled.Load(pattern); ok {
		return re.(*regexp2.Regexp), nil
	}

	// Singleline lets '.' cross line breaks, so a pattern like .*foo.*bar.*
	// spans several captured log lines.
	re, err := regexp2.Compile(pattern, regexp2.Singleline)
	if err != nil {
		return nil, failure.New(failure.Regex, "compile", pattern, err)
	}
	re.MatchTimeout = matchTimeout

	actual, _ := compiled.LoadOrStore(pattern, re)
	return actual.(*regexp2.Regexp), nil
}

func match(pattern, compiledPattern, text string) (bool, error) {
	re, err := compile(compiledPattern)
	if err != nil {
		return false, err
	}

	ok, err := re.MatchString(text)
	if err != nil {
		return false, failure.New(failure.Regex, "match", pattern, err)
	}
	return ok, nil
}

// Match reports whether pattern matches somewhere within text.
func Match(pattern, text string) (bool, error) {
	return match(pattern, pattern, text)
}

// FullMatch reports whether pattern matches the whole of text.
func FullMatch(pattern, text string) (bool, error) {
	return match(pattern, `\A(?:`+pattern+`)\z`, text)
}

// ExpectMatch fails t unless pattern matches somewhere within text.
func ExpectMatch(t assert.TestingT, pattern, text string, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return expect(t, true, pattern, text, msgAndArgs...)
}

// ExpectNoMatch fails t if pattern matches anywhere within text.
func ExpectNoMatch(t assert.TestingT, pattern, text string, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return expect(t, false, pattern, text, msgAndArgs...)
}

func expect(t assert.TestingT, want bool, pattern, text string, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	got, err := Match(pattern, text)
	if err != nil {
		return assert.Fail(t, fmt.Sprintf("Invalid pattern %q: %s", pattern, err), msgAndArgs...)
	}
	if got == want {
		return true
	}

	verb := "does not match"
	if got {
		verb = "unexpectedly matches"
	}
	return assert.Fail(t,
		fmt.Sprintf("Pattern %q %s text:\n%s", pattern, verb, helpers.Excerpt(text, excerptLimit)),
		msgAndArgs...,
	)
}
