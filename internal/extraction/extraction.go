package extraction

import (
	"log"
	"time"

	"whatsflow/internal/config"
)

// Priority levels for task drafts
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// BillDraft is a not-yet-persisted payable bill extracted from message text.
// Amount is kept in minor units (cents) until the storage layer converts it
// to a fixed-point decimal.
type BillDraft struct {
	Vendor      string
	AmountCents int64
	Currency    string
	Category    string
	Description string
}

// TaskDraft is a not-yet-persisted task. ParentIndex points at the position
// of the parent draft in the same extraction batch (-1 for root tasks); the
// executor resolves it to a stored id once the parent exists.
type TaskDraft struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	ParentIndex int
	Tags        []string
}

// EventDraft is a not-yet-persisted calendar event.
type EventDraft struct {
	Title       string
	Start       time.Time
	End         time.Time
	Location    string
	IsVirtual   bool
	MealKeyword string
	Attendees   []string
}

// Draft is the tagged union over the three entity kinds. Exactly one of the
// entity pointers is set. Span holds the literal source text the draft was
// derived from.
type Draft struct {
	Bill  *BillDraft
	Task  *TaskDraft
	Event *EventDraft

	Confidence float64
	Span       string
}

// Parser turns message content plus the event's send timestamp into zero or
// more drafts. Implementations are pure and safe for concurrent use.
type Parser interface {
	Parse(content string, ref time.Time) []Draft
}

// Settings carries the deployment-locale knobs shared by all parsers.
type Settings struct {
	DecimalStyle     config.DecimalStyle
	DefaultCurrency  string
	Location         *time.Location
	DefaultEventHour int
}

// SettingsFromConfig resolves the configured timezone, falling back to UTC
// when it cannot be loaded.
func SettingsFromConfig(cfg *config.Config) Settings {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Unknown timezone %q, using UTC", cfg.Timezone)
		loc = time.UTC
	}
	return Settings{
		DecimalStyle:     cfg.DecimalStyle,
		DefaultCurrency:  cfg.DefaultCurrency,
		Location:         loc,
		DefaultEventHour: cfg.DefaultEventHour,
	}
}

// Pipeline holds one parser per entity kind.
type Pipeline struct {
	Bills  Parser
	Tasks  Parser
	Events Parser
}

// NewPipeline wires the default locale-aware parser family.
func NewPipeline(cfg *config.Config) *Pipeline {
	s := SettingsFromConfig(cfg)
	return &Pipeline{
		Bills:  NewBillParser(s),
		Tasks:  NewTaskParser(s),
		Events: NewCalendarParser(s),
	}
}
