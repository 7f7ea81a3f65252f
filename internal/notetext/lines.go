package notetext

import (
	"errors"
	"regexp"
	"strings"
)

// ErrLineNotFound indicates no line matched a replace request.
var ErrLineNotFound = errors.New("no matching line found")

// ReplaceLine replaces the first line exactly equal to match with
// replacement. Returns ErrLineNotFound when no line matches.
func ReplaceLine(text, match, replacement string) (string, error) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == match {
			lines[i] = replacement
			return strings.Join(lines, "\n"), nil
		}
	}
	return "", ErrLineNotFound
}

// ReplaceLinePattern replaces the first line matching re, expanding
// back-references in replacement. Returns ErrLineNotFound when no line
// matches.
func ReplaceLinePattern(text string, re *regexp.Regexp, replacement string) (string, error) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if re.MatchString(line) {
			lines[i] = re.ReplaceAllString(line, replacement)
			return strings.Join(lines, "\n"), nil
		}
	}
	return "", ErrLineNotFound
}

// Prepend joins chunk before text with a single separating newline.
func Prepend(text, chunk string) string {
	if text == "" {
		return chunk
	}
	if chunk == "" {
		return text
	}
	return strings.TrimRight(chunk, "\n") + "\n" + text
}

// Append joins chunk after text with a single separating newline.
func Append(text, chunk string) string {
	if text == "" {
		return chunk
	}
	if chunk == "" {
		return text
	}
	return strings.TrimRight(text, "\n") + "\n" + chunk
}
