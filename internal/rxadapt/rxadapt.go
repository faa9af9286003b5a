// Package rxadapt is the thin contract the command library uses over a
// regular-expression engine, so the commands themselves never import
// regexp/syntax details directly.
//
// Patterns use Go's stdlib regexp/syntax, which already accepts inline
// `(?s)`/`(?m)` flags and capture groups — every pattern documented in
// the spec's test scripts (e.g. `(?s)<title>(.+?)</title>`) is valid
// Go regexp syntax as-is. No third-party engine in the reference pack
// is pulled in for this: none of the example repos imports a
// third-party regex library, and stdlib regexp already covers every
// construct the DSL's commands need (capture groups, multiline/dotall
// flags, leftmost-longest-per-match replace/split semantics).
package rxadapt

import "regexp"

// RegexError wraps a pattern compile failure.
type RegexError struct {
	Pattern string
	Err     error
}

func (e *RegexError) Error() string {
	return "invalid regex `" + e.Pattern + "`: " + e.Err.Error()
}

func (e *RegexError) Unwrap() error { return e.Err }

// Compile compiles pattern, wrapping any failure as a *RegexError.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &RegexError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// DeleteAll removes every non-overlapping match of re from s.
func DeleteAll(re *regexp.Regexp, s string) string {
	return re.ReplaceAllString(s, "")
}

// ExtractAll returns, in order, the capture-group-1 text of every match
// in s if re defines at least one capture group, otherwise the
// entire-match text of every match. A result with zero matches yields
// a nil slice.
func ExtractAll(re *regexp.Regexp, s string) []string {
	matches := re.FindAllStringSubmatch(s, -1)
	if matches == nil {
		return nil
	}

	group := 0
	if re.NumSubexp() >= 1 {
		group = 1
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if group < len(m) {
			out = append(out, m[group])
		}
	}
	return out
}
