package extraction

import (
	"regexp"
	"strings"
)

var bulletRe = regexp.MustCompile(`^\s*(?:[-*•◦]|\d{1,3}[.)])\s+`)

// listItem is one line of a bulleted or numbered list. Indent is the count
// of leading whitespace columns (tabs count as four), used to detect nested
// sub-lines.
type listItem struct {
	Text   string
	Indent int
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

// splitListItems breaks content into list items. When the message has no
// bullet structure the whole content comes back as a single item, so callers
// can treat the single-entity and multi-entity cases uniformly.
func splitListItems(content string) []listItem {
	lines := strings.Split(content, "\n")
	var items []listItem
	bullets := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if bulletRe.MatchString(line) {
			bullets++
		}
	}
	if bullets < 2 {
		return []listItem{{Text: strings.TrimSpace(content)}}
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !bulletRe.MatchString(line) {
			// Header lines before the list are kept as items too: the task
			// parser uses them as the parent of the indented block.
			items = append(items, listItem{Text: trimmed, Indent: indentOf(line)})
			continue
		}
		items = append(items, listItem{
			Text:   strings.TrimSpace(bulletRe.ReplaceAllString(line, "")),
			Indent: indentOf(line),
		})
	}
	return items
}

// firstClause returns the leading independent clause of content: everything
// up to the first newline, period, exclamation or question mark.
func firstClause(content string) string {
	s := strings.TrimSpace(content)
	if i := strings.IndexAny(s, "\n.!?"); i > 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
