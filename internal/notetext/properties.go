// Package notetext provides parsing and formatting primitives over raw
// note text: the YAML front-matter block, heading-delimited sections, the
// head section before the first heading, and line-level edits.
//
// All functions are pure: they take the full note text and return the
// modified text. Nothing here touches the filesystem.
package notetext

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnclosedFrontmatter indicates a front-matter block that opens with
// '---' but never closes, so the body boundary cannot be located.
var ErrUnclosedFrontmatter = errors.New("front matter is not closed")

// FrontmatterBounds returns the line indices of the opening and closing
// '---' markers. Front matter is only detected when the first line is '---'.
// If the block is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}

	return 0, -1, true
}

// ReadProperties parses the leading front-matter block into a flat
// key/value mapping. Scalar values keep their literal text ("7" stays "7").
// Non-scalar values and malformed YAML are ignored; the result is empty
// when no front matter is present.
func ReadProperties(text string) map[string]string {
	props := make(map[string]string)

	lines := strings.Split(text, "\n")
	_, endLine, ok := FrontmatterBounds(lines)
	if !ok || endLine == -1 {
		return props
	}

	var doc yaml.Node
	raw := strings.Join(lines[1:endLine], "\n")
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return props
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return props
	}

	mapping := doc.Content[0]
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		value := mapping.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			continue
		}
		props[key.Value] = value.Value
	}

	return props
}

// WriteProperties merges updates into the front-matter block and returns
// the new text. Existing keys are overwritten in place (preserving their
// order), new keys are appended, and the body is left untouched. A note
// without front matter gains a fresh block at the top.
func WriteProperties(text string, updates map[string]string) (string, error) {
	lines := strings.Split(text, "\n")
	_, endLine, ok := FrontmatterBounds(lines)
	if ok && endLine == -1 {
		return "", ErrUnclosedFrontmatter
	}

	// Existing keys in document order.
	var order []string
	existing := make(map[string]string)
	if ok {
		var doc yaml.Node
		raw := strings.Join(lines[1:endLine], "\n")
		if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
			return "", fmt.Errorf("parse front matter: %w", err)
		}
		if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
			mapping := doc.Content[0]
			for i := 0; i+1 < len(mapping.Content); i += 2 {
				key := mapping.Content[i]
				value := mapping.Content[i+1]
				if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
					continue
				}
				order = append(order, key.Value)
				existing[key.Value] = value.Value
			}
		}
	}

	for key, value := range updates {
		existing[key] = value
	}

	// Append new keys deterministically.
	var added []string
	for key := range updates {
		found := false
		for _, k := range order {
			if k == key {
				found = true
				break
			}
		}
		if !found {
			added = append(added, key)
		}
	}
	sort.Strings(added)
	order = append(order, added...)

	var b strings.Builder
	b.WriteString("---\n")
	for _, key := range order {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(encodeScalar(existing[key]))
		b.WriteString("\n")
	}
	b.WriteString("---")

	if ok {
		body := strings.Join(lines[endLine+1:], "\n")
		if body != "" {
			b.WriteString("\n")
			b.WriteString(body)
		}
		return b.String(), nil
	}

	b.WriteString("\n")
	b.WriteString(text)
	return b.String(), nil
}

// encodeScalar renders a property value as a single-line YAML scalar,
// quoting only when YAML requires it.
func encodeScalar(value string) string {
	out, err := yaml.Marshal(value)
	if err != nil {
		return value
	}
	return strings.TrimRight(string(out), "\n")
}
