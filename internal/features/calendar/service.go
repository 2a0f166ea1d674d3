package calendar

import (
	"context"
	"fmt"

	"whatsflow/internal/extraction"
	messagelink "whatsflow/internal/features/link"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeetingLinker allocates a video-conference link for virtual events. The
// real implementation talks to the calendar provider; deployments without
// one fall back to a placeholder room URL.
type MeetingLinker interface {
	NewMeetingLink(ctx context.Context, title string) (string, error)
}

type placeholderLinker struct{}

func (placeholderLinker) NewMeetingLink(_ context.Context, _ string) (string, error) {
	return fmt.Sprintf("https://meet.jit.si/%s", primitive.NewObjectID().Hex()), nil
}

func NewMeetingLinker() MeetingLinker {
	return placeholderLinker{}
}

// CalendarService is the calendar storage collaborator. Virtual drafts get a
// meeting link requested before the event is stored.
type CalendarService interface {
	CreateCalendarEvent(ctx context.Context, instanceID string, draft *extraction.EventDraft) (primitive.ObjectID, string, error)
	GetEvent(ctx context.Context, id string) (*CalendarEvent, error)
	ListEvents(ctx context.Context, instanceID string) ([]CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
}

type CalendarServiceImpl struct {
	Repo   CalendarRepository
	Linker MeetingLinker
	Links  messagelink.LinkRepository
}

func NewCalendarService(repo CalendarRepository, linker MeetingLinker, links messagelink.LinkRepository) CalendarService {
	return &CalendarServiceImpl{Repo: repo, Linker: linker, Links: links}
}

func (s *CalendarServiceImpl) CreateCalendarEvent(ctx context.Context, instanceID string, draft *extraction.EventDraft) (primitive.ObjectID, string, error) {
	if draft.Title == "" {
		return primitive.NilObjectID, "", fmt.Errorf("event title is required")
	}

	link := ""
	if draft.IsVirtual {
		var err error
		link, err = s.Linker.NewMeetingLink(ctx, draft.Title)
		if err != nil {
			// A missing link is not worth losing the event over
			link = ""
		}
	}

	category := ""
	if draft.MealKeyword != "" {
		category = "meal"
	}

	e := &CalendarEvent{
		Title:       draft.Title,
		Start:       draft.Start,
		End:         draft.End,
		Location:    draft.Location,
		IsVirtual:   draft.IsVirtual,
		MeetingLink: link,
		Category:    category,
		Attendees:   draft.Attendees,
		InstanceID:  instanceID,
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return primitive.NilObjectID, "", fmt.Errorf("create calendar event: %w", err)
	}
	return e.ID, link, nil
}

func (s *CalendarServiceImpl) GetEvent(ctx context.Context, id string) (*CalendarEvent, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *CalendarServiceImpl) ListEvents(ctx context.Context, instanceID string) ([]CalendarEvent, error) {
	return s.Repo.ListByInstance(ctx, instanceID)
}

// DeleteEvent removes a calendar event and the message links pointing at it.
func (s *CalendarServiceImpl) DeleteEvent(ctx context.Context, id string) error {
	e, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("event %s not found", id)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	if err := s.Links.DeleteByEntity(ctx, messagelink.EntityEvent, e.ID); err != nil {
		return fmt.Errorf("delete event links: %w", err)
	}
	return nil
}
