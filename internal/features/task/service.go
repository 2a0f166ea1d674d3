package task

import (
	"context"
	"fmt"

	"whatsflow/internal/extraction"
	"whatsflow/internal/features/link"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService is the task storage collaborator the executor creates records
// through.
type TaskService interface {
	CreateTask(ctx context.Context, instanceID string, draft *extraction.TaskDraft, parentID *primitive.ObjectID) (primitive.ObjectID, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, instanceID string) ([]Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type TaskServiceImpl struct {
	Repo  TaskRepository
	Links link.LinkRepository
}

func NewTaskService(repo TaskRepository, links link.LinkRepository) TaskService {
	return &TaskServiceImpl{Repo: repo, Links: links}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, instanceID string, draft *extraction.TaskDraft, parentID *primitive.ObjectID) (primitive.ObjectID, error) {
	if draft.Title == "" {
		return primitive.NilObjectID, fmt.Errorf("task title is required")
	}
	t := &Task{
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		ParentID:    parentID,
		Tags:        draft.Tags,
		InstanceID:  instanceID,
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return primitive.NilObjectID, fmt.Errorf("create task: %w", err)
	}
	return t.ID, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, id string) (*Task, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, instanceID string) ([]Task, error) {
	return s.Repo.ListByInstance(ctx, instanceID)
}

// DeleteTask removes a task and the message links pointing at it.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("task %s not found", id)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err := s.Links.DeleteByEntity(ctx, link.EntityTask, t.ID); err != nil {
		return fmt.Errorf("delete task links: %w", err)
	}
	return nil
}
