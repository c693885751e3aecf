package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/interfaces"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/model/config"
	"github.com/safework-lab/talos/pkg/domain/types"
)

// CatalogUseCase maintains the Group/Item/Document hierarchy and its
// referential invariants.
type CatalogUseCase struct {
	repo         interfaces.Repository
	statusPolicy *config.StatusPolicy
}

func NewCatalogUseCase(repo interfaces.Repository, policy *config.StatusPolicy) *CatalogUseCase {
	if policy == nil {
		policy = config.DefaultStatusPolicy()
	}
	return &CatalogUseCase{
		repo:         repo,
		statusPolicy: policy,
	}
}

// AddGroup registers an obligation group
func (uc *CatalogUseCase) AddGroup(ctx context.Context, group *model.Group) (*model.Group, error) {
	if err := group.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid group")
	}
	created, err := uc.repo.Group().Put(ctx, group)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store group", goerr.V(GroupIDKey, group.ID))
	}
	return created, nil
}

// AddItem registers an item under an existing group. The group must
// exist first; an item can never dangle.
func (uc *CatalogUseCase) AddItem(ctx context.Context, item *model.Item) (*model.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid item")
	}
	if _, err := uc.repo.Group().Get(ctx, item.GroupID); err != nil {
		return nil, goerr.Wrap(err, "cannot add item to unknown group",
			goerr.V(GroupIDKey, item.GroupID), goerr.V(ItemNumberKey, item.ItemNumber))
	}

	item.Status = item.Classify(time.Now(), uc.statusPolicy)
	created, err := uc.repo.Item().Put(ctx, item)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store item",
			goerr.V(GroupIDKey, item.GroupID), goerr.V(ItemNumberKey, item.ItemNumber))
	}
	return created, nil
}

// GetItem returns an item with its status recomputed. The stored
// status is only a cache.
func (uc *CatalogUseCase) GetItem(ctx context.Context, groupID types.GroupID, itemNumber int) (*model.Item, error) {
	item, err := uc.repo.Item().Get(ctx, groupID, itemNumber)
	if err != nil {
		return nil, err
	}
	item.Status = item.Classify(time.Now(), uc.statusPolicy)
	return item, nil
}

// ListItems returns all items with statuses recomputed
func (uc *CatalogUseCase) ListItems(ctx context.Context) ([]*model.Item, error) {
	items, err := uc.repo.Item().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list items")
	}
	now := time.Now()
	for _, item := range items {
		item.Status = item.Classify(now, uc.statusPolicy)
	}
	return items, nil
}

// GenerateDocuments creates the item's document stubs, numbered
// 1..DocumentCount. Sequence numbers come from the repository's
// per-item counter and are never reused, even after deletion.
func (uc *CatalogUseCase) GenerateDocuments(ctx context.Context, groupID types.GroupID, itemNumber int, organizationName string, writtenAt, approvalDeadline time.Time) ([]*model.Document, error) {
	item, err := uc.repo.Item().Get(ctx, groupID, itemNumber)
	if err != nil {
		return nil, err
	}
	if !approvalDeadline.IsZero() && approvalDeadline.Before(writtenAt) {
		return nil, goerr.New("approval deadline must not precede written date",
			goerr.V("written_at", writtenAt), goerr.V("approval_deadline", approvalDeadline))
	}

	docs := make([]*model.Document, 0, item.DocumentCount)
	for n := 1; n <= item.DocumentCount; n++ {
		doc := &model.Document{
			GroupID:          item.GroupID,
			ItemNumber:       item.ItemNumber,
			DocumentNumber:   n,
			OrganizationName: organizationName,
			Name:             fmt.Sprintf("%s (%d/%d)", item.DocumentName, n, item.DocumentCount),
			WrittenAt:        writtenAt,
			ApprovalDeadline: approvalDeadline,
			Lifecycle:        types.LifecycleDraft,
		}
		if err := doc.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid document stub")
		}

		created, err := uc.repo.Document().Create(ctx, doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create document stub",
				goerr.V(GroupIDKey, groupID),
				goerr.V(ItemNumberKey, itemNumber),
				goerr.V(DocumentNumberKey, n))
		}
		docs = append(docs, created)
	}
	return docs, nil
}

// GetDocument fails with ErrDocumentNotFound rather than returning a
// nullable result, so callers cannot silently branch on a missing key.
func (uc *CatalogUseCase) GetDocument(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int) (*model.Document, error) {
	return uc.repo.Document().Get(ctx, groupID, itemNumber, documentNumber)
}

// GetDocumentsByItem lists an item's document instances
func (uc *CatalogUseCase) GetDocumentsByItem(ctx context.Context, groupID types.GroupID, itemNumber int) ([]*model.Document, error) {
	return uc.repo.Document().ListByItem(ctx, groupID, itemNumber)
}

// DeleteItem removes an item. Rejected while any of its documents is
// still open; the documents must be completed or deleted first.
func (uc *CatalogUseCase) DeleteItem(ctx context.Context, groupID types.GroupID, itemNumber int) error {
	docs, err := uc.repo.Document().ListByItem(ctx, groupID, itemNumber)
	if err != nil {
		return goerr.Wrap(err, "failed to list documents for item",
			goerr.V(GroupIDKey, groupID), goerr.V(ItemNumberKey, itemNumber))
	}
	for _, doc := range docs {
		if !doc.IsCompleted() {
			return goerr.Wrap(model.ErrItemHasOpenDocuments, "item still has open documents",
				goerr.V(GroupIDKey, groupID),
				goerr.V(ItemNumberKey, itemNumber),
				goerr.V(DocumentNumberKey, doc.DocumentNumber))
		}
	}
	return uc.repo.Item().Delete(ctx, groupID, itemNumber)
}

// DeleteDocument removes a document instance. Completed documents are
// immutable and cannot be deleted.
func (uc *CatalogUseCase) DeleteDocument(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int) error {
	doc, err := uc.repo.Document().Get(ctx, groupID, itemNumber, documentNumber)
	if err != nil {
		return err
	}
	if doc.IsCompleted() {
		return goerr.Wrap(model.ErrDocumentImmutable, "completed document cannot be deleted",
			goerr.V(GroupIDKey, groupID),
			goerr.V(ItemNumberKey, itemNumber),
			goerr.V(DocumentNumberKey, documentNumber))
	}
	return uc.repo.Document().Delete(ctx, groupID, itemNumber, documentNumber)
}
