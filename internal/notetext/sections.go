package notetext

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// Heading is a column-0 ATX heading found in note text.
type Heading struct {
	Level int
	Text  string
	Line  int // 0-indexed line within the full text
}

// Headings extracts headings from the note body using goldmark, keeping
// only headings whose line starts with '#' at column 0. Setext headings
// and headings nested in quotes or lists are not section boundaries.
func Headings(text string) []Heading {
	lines := strings.Split(text, "\n")
	bodyStart := 0
	if _, endLine, ok := FrontmatterBounds(lines); ok && endLine != -1 {
		bodyStart = endLine + 1
	}
	body := strings.Join(lines[bodyStart:], "\n")

	var headings []Heading

	md := goldmark.New()
	reader := gmtext.NewReader([]byte(body))
	doc := md.Parser().Parse(reader)

	lineStarts := computeLineStarts(body)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := n.(*ast.Heading)
		if !ok || heading.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}

		offset := heading.Lines().At(0).Start
		line := bodyStart + offsetToLine(lineStarts, offset)
		if line >= len(lines) || !strings.HasPrefix(lines[line], "#") {
			return ast.WalkContinue, nil
		}

		var textBuilder strings.Builder
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				textBuilder.Write(textNode.Segment.Value([]byte(body)))
			}
		}

		headings = append(headings, Heading{
			Level: heading.Level,
			Text:  strings.TrimSpace(textBuilder.String()),
			Line:  line,
		})

		return ast.WalkContinue, nil
	})

	return headings
}

// GetSection returns the content strictly between the first heading whose
// text equals heading and the next heading of any level (or end of text),
// trimmed. ok is false when no such heading exists.
func GetSection(text, heading string) (content string, ok bool) {
	headings := Headings(text)
	lines := strings.Split(text, "\n")

	for i, h := range headings {
		if h.Text != heading {
			continue
		}
		end := len(lines)
		if i+1 < len(headings) {
			end = headings[i+1].Line
		}
		return strings.TrimSpace(strings.Join(lines[h.Line+1:end], "\n")), true
	}

	return "", false
}

// WriteSection replaces the body of the first '## heading' section with
// content, or appends a new section when the heading does not exist. The
// replaced region runs from the heading line to the next line starting
// with '#'.
func WriteSection(text, heading, content string) string {
	lines := strings.Split(text, "\n")

	for _, h := range Headings(text) {
		if h.Level != 2 || h.Text != heading {
			continue
		}

		end := len(lines)
		for j := h.Line + 1; j < len(lines); j++ {
			if strings.HasPrefix(lines[j], "#") {
				end = j
				break
			}
		}

		var out []string
		out = append(out, lines[:h.Line+1]...)
		out = append(out, "", content, "")
		out = append(out, lines[end:]...)
		return strings.Join(out, "\n")
	}

	trimmed := strings.TrimRight(text, "\n")
	return trimmed + "\n\n## " + heading + "\n\n" + content
}

// HeadSection returns the free text between the front matter (or the start
// of the note) and the first heading, trimmed.
func HeadSection(text string) string {
	lines := strings.Split(text, "\n")

	start := 0
	if _, endLine, ok := FrontmatterBounds(lines); ok && endLine != -1 {
		start = endLine + 1
	}

	end := len(lines)
	if headings := Headings(text); len(headings) > 0 {
		end = headings[0].Line
	}

	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

// SetHeadSection replaces the head region, preserving the front matter and
// everything from the first heading onward.
func SetHeadSection(text, content string) string {
	lines := strings.Split(text, "\n")

	start := 0
	if _, endLine, ok := FrontmatterBounds(lines); ok && endLine != -1 {
		start = endLine + 1
	}

	end := len(lines)
	if headings := Headings(text); len(headings) > 0 {
		end = headings[0].Line
	}

	var out []string
	out = append(out, lines[:start]...)
	out = append(out, "", content, "")
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n")
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
