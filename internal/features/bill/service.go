package bill

import (
	"context"
	"fmt"

	"whatsflow/internal/extraction"
	"whatsflow/internal/features/link"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BillService is the payable-bill storage collaborator.
type BillService interface {
	CreateBillPayable(ctx context.Context, instanceID string, draft *extraction.BillDraft) (primitive.ObjectID, error)
	GetBill(ctx context.Context, id string) (*BillPayable, error)
	ListBills(ctx context.Context, instanceID string) ([]BillPayable, error)
	DeleteBill(ctx context.Context, id string) error
}

type BillServiceImpl struct {
	Repo  BillRepository
	Links link.LinkRepository
}

func NewBillService(repo BillRepository, links link.LinkRepository) BillService {
	return &BillServiceImpl{Repo: repo, Links: links}
}

func (s *BillServiceImpl) CreateBillPayable(ctx context.Context, instanceID string, draft *extraction.BillDraft) (primitive.ObjectID, error) {
	amount, err := primitive.ParseDecimal128(extraction.FormatCents(draft.AmountCents))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("amount to decimal: %w", err)
	}
	b := &BillPayable{
		Vendor:      draft.Vendor,
		Amount:      amount,
		Currency:    draft.Currency,
		Category:    draft.Category,
		Description: draft.Description,
		InstanceID:  instanceID,
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		return primitive.NilObjectID, fmt.Errorf("create bill: %w", err)
	}
	return b.ID, nil
}

func (s *BillServiceImpl) GetBill(ctx context.Context, id string) (*BillPayable, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *BillServiceImpl) ListBills(ctx context.Context, instanceID string) ([]BillPayable, error) {
	return s.Repo.ListByInstance(ctx, instanceID)
}

// DeleteBill removes a bill and the message links pointing at it.
func (s *BillServiceImpl) DeleteBill(ctx context.Context, id string) error {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("bill %s not found", id)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if err := s.Links.DeleteByEntity(ctx, link.EntityBill, b.ID); err != nil {
		return fmt.Errorf("delete bill links: %w", err)
	}
	return nil
}
