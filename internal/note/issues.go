package note

import (
	"errors"
	"regexp"
	"strings"

	"github.com/aidanlsb/mission/internal/entity"
	"github.com/aidanlsb/mission/internal/notetext"
)

// ErrIssueLineNotFound indicates no issue line matched a given title.
var ErrIssueLineNotFound = errors.New("issue line not found")

var (
	issueLinePattern     = regexp.MustCompile(`^- (\[(x| )\]\s*)?(.*)$`)
	issueIDSuffixPattern = regexp.MustCompile(`\((\S+)\)$`)
	descriptionPattern   = regexp.MustCompile(`^\s+- (\S.*)$`)
	indentedOrBlank      = regexp.MustCompile(`^(\s+\S.*)?$`)
)

// parser states for the issue-list line scanner.
type issueScanState int

const (
	scanOutside issueScanState = iota
	scanInIssue
	scanInDescription
)

// ParseIssues scans the "Issues" section and returns the issues it
// encodes, in order. Issue lines are bullets with an optional checkbox and
// an optional trailing "(id)" suffix; an indented bullet immediately below
// an issue line starts its description, and further indented or blank
// lines extend it until the next non-indented content.
func ParseIssues(text string) []entity.Issue {
	section, ok := notetext.GetSection(text, IssuesHeading)
	if !ok {
		return nil
	}

	var issues []entity.Issue
	var descLines []string
	state := scanOutside

	flush := func() {
		if len(issues) > 0 && len(descLines) > 0 {
			issues[len(issues)-1].Description = strings.TrimSpace(strings.Join(descLines, "\n"))
		}
		descLines = nil
	}

	for _, line := range strings.Split(section, "\n") {
		if m := issueLinePattern.FindStringSubmatch(line); m != nil {
			flush()
			issues = append(issues, parseIssueLine(m))
			state = scanInIssue
			continue
		}

		switch state {
		case scanInIssue:
			if m := descriptionPattern.FindStringSubmatch(line); m != nil {
				descLines = []string{m[1]}
				state = scanInDescription
			} else {
				state = scanOutside
			}
		case scanInDescription:
			if indentedOrBlank.MatchString(line) {
				descLines = append(descLines, strings.TrimSpace(line))
			} else {
				flush()
				state = scanOutside
			}
		}
	}
	flush()

	return issues
}

// parseIssueLine builds an issue from an issue-line regex match: checkbox
// state, trailing id suffix, remaining text as title.
func parseIssueLine(m []string) entity.Issue {
	issue := entity.Issue{Status: entity.StatusOpen}
	if m[2] == "x" {
		issue.Status = entity.StatusClosed
	}

	title := strings.TrimSpace(m[3])
	if id := issueIDSuffixPattern.FindStringSubmatch(title); id != nil {
		issue.ID = id[1]
		title = strings.TrimSpace(strings.TrimSuffix(title, id[0]))
	}
	issue.Title = title

	return issue
}

// FormatIssue renders an issue back into its line form, the inverse of
// ParseIssues for fields the grammar can express.
func FormatIssue(issue entity.Issue) string {
	var b strings.Builder

	if issue.Status == entity.StatusClosed {
		b.WriteString("- [x] ")
	} else {
		b.WriteString("- [ ] ")
	}
	b.WriteString(issue.Title)
	if issue.ID != "" {
		b.WriteString(" (")
		b.WriteString(issue.ID)
		b.WriteString(")")
	}

	if issue.Description != "" {
		for i, line := range strings.Split(issue.Description, "\n") {
			if i == 0 {
				b.WriteString("\n  - ")
			} else {
				b.WriteString("\n    ")
			}
			b.WriteString(line)
		}
	}

	return b.String()
}

// FormatIssueList renders issues as the full "Issues" section body.
func FormatIssueList(issues []entity.Issue) string {
	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		lines = append(lines, FormatIssue(issue))
	}
	return strings.Join(lines, "\n")
}

// SetIssueID appends " (id)" to the issue line whose title matches exactly
// (ignoring any checkbox). Returns ErrIssueLineNotFound when the line is
// gone, which callers treat as recoverable: the id lands on the next sync.
func SetIssueID(text, title, id string) (string, error) {
	pattern := regexp.MustCompile(`^- (\[(x| )\]\s*)?` + regexp.QuoteMeta(title) + `$`)
	out, err := notetext.ReplaceLinePattern(text, pattern, "${0} ("+id+")")
	if err != nil {
		return "", ErrIssueLineNotFound
	}
	return out, nil
}
