package instance

import (
	"context"
	"fmt"
)

// InstanceService is the instance directory. The engine's performer filter
// depends only on GetOwnerJID.
type InstanceService interface {
	CreateInstance(ctx context.Context, inst *Instance) error
	GetInstance(ctx context.Context, instanceID string) (*Instance, error)
	ListInstances(ctx context.Context) ([]Instance, error)
	UpdateInstance(ctx context.Context, inst *Instance) error
	DeleteInstance(ctx context.Context, instanceID string) error

	GetOwnerJID(ctx context.Context, instanceID string) (string, error)
}

type InstanceServiceImpl struct {
	Repo InstanceRepository
}

func NewInstanceService(repo InstanceRepository) InstanceService {
	return &InstanceServiceImpl{Repo: repo}
}

func (s *InstanceServiceImpl) CreateInstance(ctx context.Context, inst *Instance) error {
	if inst.InstanceID == "" {
		return fmt.Errorf("instance_id is required")
	}
	if inst.OwnerJID == "" {
		return fmt.Errorf("owner_jid is required")
	}
	return s.Repo.Create(ctx, inst)
}

func (s *InstanceServiceImpl) GetInstance(ctx context.Context, instanceID string) (*Instance, error) {
	return s.Repo.GetByInstanceID(ctx, instanceID)
}

func (s *InstanceServiceImpl) ListInstances(ctx context.Context) ([]Instance, error) {
	return s.Repo.List(ctx)
}

func (s *InstanceServiceImpl) UpdateInstance(ctx context.Context, inst *Instance) error {
	return s.Repo.Update(ctx, inst)
}

func (s *InstanceServiceImpl) DeleteInstance(ctx context.Context, instanceID string) error {
	return s.Repo.Delete(ctx, instanceID)
}

func (s *InstanceServiceImpl) GetOwnerJID(ctx context.Context, instanceID string) (string, error) {
	inst, err := s.Repo.GetByInstanceID(ctx, instanceID)
	if err != nil {
		return "", err
	}
	if inst == nil {
		return "", fmt.Errorf("instance %s not found", instanceID)
	}
	return inst.OwnerJID, nil
}
