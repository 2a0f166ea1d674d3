package calendar

import (
	"context"
	"fmt"
	"testing"
	"time"

	"whatsflow/internal/extraction"
	"whatsflow/internal/features/link"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCalendarRepo struct {
	events map[string]*CalendarEvent
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{events: map[string]*CalendarEvent{}}
}

func (f *fakeCalendarRepo) Create(_ context.Context, e *CalendarEvent) error {
	e.ID = primitive.NewObjectID()
	f.events[e.ID.Hex()] = e
	return nil
}

func (f *fakeCalendarRepo) GetByID(_ context.Context, id string) (*CalendarEvent, error) {
	return f.events[id], nil
}

func (f *fakeCalendarRepo) ListByInstance(_ context.Context, instanceID string) ([]CalendarEvent, error) {
	var out []CalendarEvent
	for _, e := range f.events {
		if e.InstanceID == instanceID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeCalendarRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return fmt.Errorf("event %s not found", id)
	}
	delete(f.events, id)
	return nil
}

type fakeLinkRepo struct {
	links []link.MessageEntityLink
}

func (f *fakeLinkRepo) Create(_ context.Context, l *link.MessageEntityLink) error {
	l.ID = primitive.NewObjectID()
	f.links = append(f.links, *l)
	return nil
}

func (f *fakeLinkRepo) ListByMessage(_ context.Context, _, _ string) ([]link.MessageEntityLink, error) {
	return nil, nil
}

func (f *fakeLinkRepo) ListByEntity(_ context.Context, _ link.EntityType, _ primitive.ObjectID) ([]link.MessageEntityLink, error) {
	return nil, nil
}

func (f *fakeLinkRepo) DeleteByEntity(_ context.Context, entityType link.EntityType, entityID primitive.ObjectID) error {
	kept := f.links[:0]
	for _, l := range f.links {
		if l.EntityType != entityType || l.EntityID != entityID {
			kept = append(kept, l)
		}
	}
	f.links = kept
	return nil
}

func (f *fakeLinkRepo) EnsureIndexes(_ context.Context) error { return nil }

func TestCreateCalendarEventVirtualGetsMeetingLink(t *testing.T) {
	repo := newFakeCalendarRepo()
	svc := NewCalendarService(repo, NewMeetingLinker(), &fakeLinkRepo{})

	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	id, meetingLink, err := svc.CreateCalendarEvent(context.Background(), "inst-1", &extraction.EventDraft{
		Title:     "videollamada con Ana",
		Start:     start,
		End:       start.Add(time.Hour),
		IsVirtual: true,
	})
	if err != nil {
		t.Fatalf("CreateCalendarEvent() error = %v", err)
	}
	if meetingLink == "" {
		t.Error("virtual event got no meeting link")
	}
	if stored := repo.events[id.Hex()]; stored == nil || stored.MeetingLink != meetingLink {
		t.Errorf("stored event = %+v, want meeting link %q", stored, meetingLink)
	}
}

func TestDeleteEventCascadesLinks(t *testing.T) {
	repo := newFakeCalendarRepo()
	links := &fakeLinkRepo{}
	svc := NewCalendarService(repo, NewMeetingLinker(), links)
	ctx := context.Background()

	start := time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)
	id, _, err := svc.CreateCalendarEvent(ctx, "inst-1", &extraction.EventDraft{
		Title: "Junta de equipo",
		Start: start,
		End:   start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateCalendarEvent() error = %v", err)
	}
	links.links = append(links.links,
		link.MessageEntityLink{EntityType: link.EntityEvent, EntityID: id, MessageID: "wamid.1", InstanceID: "inst-1", LinkType: link.LinkTrigger},
		link.MessageEntityLink{EntityType: link.EntityBill, EntityID: primitive.NewObjectID(), MessageID: "wamid.1", InstanceID: "inst-1", LinkType: link.LinkTrigger},
	)

	if err := svc.DeleteEvent(ctx, id.Hex()); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if got, _ := svc.GetEvent(ctx, id.Hex()); got != nil {
		t.Error("event still present after delete")
	}
	if len(links.links) != 1 || links.links[0].EntityType != link.EntityBill {
		t.Errorf("links remaining = %+v, want only the unrelated bill link", links.links)
	}
}
