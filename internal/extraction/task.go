package extraction

import (
	"regexp"
	"strings"
	"time"
)

var (
	highPriorityRe = regexp.MustCompile(`(?i)\b(urgente?|urgent|asap|importante|prioridad\s+alta|alta\s+prioridad|high\s+priority|cuanto\s+antes)\b`)
	lowPriorityRe  = regexp.MustCompile(`(?i)\b(baja\s+prioridad|prioridad\s+baja|low\s+priority|sin\s+prisa|cuando\s+puedas)\b`)
	tagRe          = regexp.MustCompile(`#([\p{L}\d_-]+)`)
)

// TaskParser turns message content into task drafts. A nested bullet
// structure (parent line plus indented sub-lines) produces one parent draft
// and one child per sub-line, the child pointing at the parent's position in
// the batch.
type TaskParser struct {
	settings Settings
}

func NewTaskParser(s Settings) *TaskParser {
	return &TaskParser{settings: s}
}

func (p *TaskParser) Parse(content string, ref time.Time) []Draft {
	items := splitListItems(content)
	if len(items) == 1 {
		return []Draft{p.draftFor(items[0].Text, ref, -1)}
	}

	var drafts []Draft
	parentIdx := -1
	baseIndent := items[0].Indent
	for _, item := range items {
		if item.Indent <= baseIndent {
			drafts = append(drafts, p.draftFor(item.Text, ref, -1))
			parentIdx = len(drafts) - 1
			baseIndent = item.Indent
			continue
		}
		drafts = append(drafts, p.draftFor(item.Text, ref, parentIdx))
	}
	return drafts
}

func (p *TaskParser) draftFor(text string, ref time.Time, parentIdx int) Draft {
	title := firstClause(text)
	confidence := 0.85
	if title == "" {
		title = strings.TrimSpace(text)
		confidence = 0.3
	}

	priority := PriorityMedium
	switch {
	case highPriorityRe.MatchString(text):
		priority = PriorityHigh
	case lowPriorityRe.MatchString(text):
		priority = PriorityLow
	}

	var due *time.Time
	if d, ok := relativeDate(text, ref.In(p.settings.Location)); ok {
		due = &d
	}

	var tags []string
	for _, m := range tagRe.FindAllStringSubmatch(text, -1) {
		tags = append(tags, strings.ToLower(m[1]))
	}

	return Draft{
		Task: &TaskDraft{
			Title:       title,
			Priority:    priority,
			DueDate:     due,
			ParentIndex: parentIdx,
			Tags:        tags,
		},
		Confidence: confidence,
		Span:       text,
	}
}
