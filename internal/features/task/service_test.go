package task

import (
	"context"
	"fmt"
	"testing"

	"whatsflow/internal/extraction"
	"whatsflow/internal/features/link"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeTaskRepo struct {
	tasks map[string]*Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*Task{}}
}

func (f *fakeTaskRepo) Create(_ context.Context, t *Task) error {
	t.ID = primitive.NewObjectID()
	f.tasks[t.ID.Hex()] = t
	return nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (*Task, error) {
	return f.tasks[id], nil
}

func (f *fakeTaskRepo) ListByInstance(_ context.Context, instanceID string) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		if t.InstanceID == instanceID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return fmt.Errorf("task %s not found", id)
	}
	delete(f.tasks, id)
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

func (f *fakeLinkRepo) ListByEntity(_ context.Context, entityType link.EntityType, entityID primitive.ObjectID) ([]link.MessageEntityLink, error) {
	var out []link.MessageEntityLink
	for _, l := range f.links {
		if l.EntityType == entityType && l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
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

func TestDeleteTaskCascadesLinks(t *testing.T) {
	repo := newFakeTaskRepo()
	links := &fakeLinkRepo{}
	svc := NewTaskService(repo, links)
	ctx := context.Background()

	id, err := svc.CreateTask(ctx, "inst-1", &extraction.TaskDraft{Title: "comprar pintura", ParentIndex: -1}, nil)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	links.links = append(links.links,
		link.MessageEntityLink{EntityType: link.EntityTask, EntityID: id, MessageID: "wamid.1", InstanceID: "inst-1", LinkType: link.LinkTrigger},
		link.MessageEntityLink{EntityType: link.EntityBill, EntityID: primitive.NewObjectID(), MessageID: "wamid.1", InstanceID: "inst-1", LinkType: link.LinkTrigger},
	)

	if err := svc.DeleteTask(ctx, id.Hex()); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if got, _ := svc.GetTask(ctx, id.Hex()); got != nil {
		t.Error("task still present after delete")
	}
	if len(links.links) != 1 {
		t.Fatalf("links remaining = %d, want 1", len(links.links))
	}
	if links.links[0].EntityType != link.EntityBill {
		t.Errorf("surviving link type = %q, want the unrelated bill link", links.links[0].EntityType)
	}
}

func TestDeleteTaskMissing(t *testing.T) {
	svc := NewTaskService(newFakeTaskRepo(), &fakeLinkRepo{})

	if err := svc.DeleteTask(context.Background(), primitive.NewObjectID().Hex()); err == nil {
		t.Fatal("expected an error deleting a missing task")
	}
}
