package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type remediationRowDoc struct {
	ID              string     `firestore:"id"`
	Hazard          string     `firestore:"hazard"`
	ControlTier     string     `firestore:"control_tier"`
	CurrentRisk     riskDoc    `firestore:"current_risk"`
	ProposedMeasure string     `firestore:"proposed_measure"`
	PostRisk        riskDoc    `firestore:"post_risk"`
	Owner           string     `firestore:"owner"`
	DueDate         time.Time  `firestore:"due_date"`
	CompletedAt     *time.Time `firestore:"completed_at"`
	Done            bool       `firestore:"done"`
}

type riskDoc struct {
	Frequency int    `firestore:"frequency"`
	Severity  int    `firestore:"severity"`
	Value     int    `firestore:"value"`
	Label     string `firestore:"label"`
}

type signatureTargetDoc struct {
	ID          string     `firestore:"id"`
	Name        string     `firestore:"name"`
	Role        string     `firestore:"role"`
	Type        string     `firestore:"type"`
	Order       int        `firestore:"order"`
	Status      string     `firestore:"status"`
	CompletedAt *time.Time `firestore:"completed_at"`
}

type documentDoc struct {
	GroupID          string               `firestore:"group_id"`
	ItemNumber       int                  `firestore:"item_number"`
	DocumentNumber   int                  `firestore:"document_number"`
	Sequence         int64                `firestore:"sequence"`
	RegisteredAt     time.Time            `firestore:"registered_at"`
	OrganizationName string               `firestore:"organization_name"`
	Name             string               `firestore:"name"`
	WrittenAt        time.Time            `firestore:"written_at"`
	ApprovalDeadline time.Time            `firestore:"approval_deadline"`
	Lifecycle        string               `firestore:"lifecycle"`
	Published        bool                 `firestore:"published"`
	Rows             []remediationRowDoc  `firestore:"rows"`
	Targets          []signatureTargetDoc `firestore:"targets"`
	Revision         int64                `firestore:"revision"`
	CreatedAt        time.Time            `firestore:"created_at"`
	UpdatedAt        time.Time            `firestore:"updated_at"`
}

func newRiskDoc(s model.RiskScore) riskDoc {
	return riskDoc{Frequency: s.Frequency, Severity: s.Severity, Value: s.Value, Label: s.Label}
}

func (d riskDoc) toModel() model.RiskScore {
	return model.RiskScore{Frequency: d.Frequency, Severity: d.Severity, Value: d.Value, Label: d.Label}
}

func newDocumentDoc(doc *model.Document) *documentDoc {
	d := &documentDoc{
		GroupID:          doc.GroupID.String(),
		ItemNumber:       doc.ItemNumber,
		DocumentNumber:   doc.DocumentNumber,
		Sequence:         doc.Sequence,
		RegisteredAt:     doc.RegisteredAt,
		OrganizationName: doc.OrganizationName,
		Name:             doc.Name,
		WrittenAt:        doc.WrittenAt,
		ApprovalDeadline: doc.ApprovalDeadline,
		Lifecycle:        doc.Lifecycle.Normalize().String(),
		Published:        doc.Published,
		Revision:         doc.Revision,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
	for _, row := range doc.Rows {
		d.Rows = append(d.Rows, remediationRowDoc{
			ID:              row.ID,
			Hazard:          row.Hazard,
			ControlTier:     row.ControlTier.String(),
			CurrentRisk:     newRiskDoc(row.CurrentRisk),
			ProposedMeasure: row.ProposedMeasure,
			PostRisk:        newRiskDoc(row.PostRisk),
			Owner:           row.Owner,
			DueDate:         row.DueDate,
			CompletedAt:     row.CompletedAt,
			Done:            row.Done,
		})
	}
	for _, target := range doc.Targets {
		d.Targets = append(d.Targets, signatureTargetDoc{
			ID:          target.ID,
			Name:        target.Name,
			Role:        target.Role,
			Type:        target.Type.String(),
			Order:       target.Order,
			Status:      target.Status.Normalize().String(),
			CompletedAt: target.CompletedAt,
		})
	}
	return d
}

func (d *documentDoc) toModel() *model.Document {
	doc := &model.Document{
		GroupID:          types.GroupID(d.GroupID),
		ItemNumber:       d.ItemNumber,
		DocumentNumber:   d.DocumentNumber,
		Sequence:         d.Sequence,
		RegisteredAt:     d.RegisteredAt,
		OrganizationName: d.OrganizationName,
		Name:             d.Name,
		WrittenAt:        d.WrittenAt,
		ApprovalDeadline: d.ApprovalDeadline,
		Lifecycle:        types.Lifecycle(d.Lifecycle),
		Published:        d.Published,
		Revision:         d.Revision,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	for _, row := range d.Rows {
		doc.Rows = append(doc.Rows, model.RemediationRow{
			ID:              row.ID,
			Hazard:          row.Hazard,
			ControlTier:     types.ControlTier(row.ControlTier),
			CurrentRisk:     row.CurrentRisk.toModel(),
			ProposedMeasure: row.ProposedMeasure,
			PostRisk:        row.PostRisk.toModel(),
			Owner:           row.Owner,
			DueDate:         row.DueDate,
			CompletedAt:     row.CompletedAt,
			Done:            row.Done,
		})
	}
	for _, target := range d.Targets {
		doc.Targets = append(doc.Targets, model.SignatureTarget{
			ID:          target.ID,
			Name:        target.Name,
			Role:        target.Role,
			Type:        types.TargetType(target.Type),
			Order:       target.Order,
			Status:      types.TargetStatus(target.Status),
			CompletedAt: target.CompletedAt,
		})
	}
	return doc
}

type documentRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newDocumentRepository(client *firestore.Client) *documentRepository {
	return &documentRepository{client: client}
}

func (r *documentRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_documents"
	}
	return "documents"
}

func (r *documentRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_counters"
	}
	return "counters"
}

func docID(groupID types.GroupID, itemNumber, documentNumber int) string {
	return fmt.Sprintf("%s:%d:%d", groupID, itemNumber, documentNumber)
}

// nextSequence advances the per-item sequence counter in a
// transaction. Counters only move forward; deleting a document never
// frees its sequence number.
func (r *documentRepository) nextSequence(ctx context.Context, groupID types.GroupID, itemNumber int) (int64, error) {
	counterRef := r.client.Collection(r.counterCollection()).
		Doc(fmt.Sprintf("seq_%s_%d", groupID, itemNumber))

	var next int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				next = 1
				return tx.Set(counterRef, map[string]interface{}{"value": next})
			}
			return goerr.Wrap(err, "failed to get sequence counter")
		}

		current, err := snap.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to read sequence counter value")
		}

		next = current.(int64) + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: next},
		})
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to advance sequence counter",
			goerr.V(model.GroupIDKey, groupID), goerr.V(model.ItemNumberKey, itemNumber))
	}
	return next, nil
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	stored := newDocumentDoc(doc)
	if stored.Sequence == 0 {
		seq, err := r.nextSequence(ctx, doc.GroupID, doc.ItemNumber)
		if err != nil {
			return nil, err
		}
		stored.Sequence = seq
	}

	now := time.Now().UTC()
	stored.Revision = 1
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.RegisteredAt.IsZero() {
		stored.RegisteredAt = now
	}

	docRef := r.client.Collection(r.collection()).Doc(docID(doc.GroupID, doc.ItemNumber, doc.DocumentNumber))
	if _, err := docRef.Create(ctx, stored); err != nil {
		return nil, goerr.Wrap(err, "failed to create document",
			goerr.V(model.GroupIDKey, doc.GroupID),
			goerr.V(model.ItemNumberKey, doc.ItemNumber),
			goerr.V(model.DocumentNumberKey, doc.DocumentNumber))
	}
	return stored.toModel(), nil
}

func (r *documentRepository) Get(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int) (*model.Document, error) {
	snap, err := r.client.Collection(r.collection()).Doc(docID(groupID, itemNumber, documentNumber)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrDocumentNotFound, "document not found",
				goerr.V(model.GroupIDKey, groupID),
				goerr.V(model.ItemNumberKey, itemNumber),
				goerr.V(model.DocumentNumberKey, documentNumber))
		}
		return nil, goerr.Wrap(err, "failed to get document")
	}

	var doc documentDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode document")
	}
	return doc.toModel(), nil
}

func (r *documentRepository) list(ctx context.Context, query firestore.Query) ([]*model.Document, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []*model.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var doc documentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document")
		}
		docs = append(docs, doc.toModel())
	}
	return docs, nil
}

func (r *documentRepository) ListByItem(ctx context.Context, groupID types.GroupID, itemNumber int) ([]*model.Document, error) {
	query := r.client.Collection(r.collection()).
		Where("group_id", "==", groupID.String()).
		Where("item_number", "==", itemNumber).
		OrderBy("document_number", firestore.Asc)
	return r.list(ctx, query)
}

func (r *documentRepository) List(ctx context.Context) ([]*model.Document, error) {
	query := r.client.Collection(r.collection()).
		OrderBy("group_id", firestore.Asc).
		OrderBy("item_number", firestore.Asc).
		OrderBy("document_number", firestore.Asc)
	return r.list(ctx, query)
}

// Update applies the aggregate under a transaction that checks the
// stored revision. A mismatch means another writer won; the caller
// must re-fetch and retry.
func (r *documentRepository) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	docRef := r.client.Collection(r.collection()).Doc(docID(doc.GroupID, doc.ItemNumber, doc.DocumentNumber))

	updated := newDocumentDoc(doc)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrDocumentNotFound, "document not found")
			}
			return goerr.Wrap(err, "failed to get document for update")
		}

		var stored documentDoc
		if err := snap.DataTo(&stored); err != nil {
			return goerr.Wrap(err, "failed to decode stored document")
		}
		if stored.Revision != doc.Revision {
			return goerr.Wrap(model.ErrConcurrentModification, "revision mismatch",
				goerr.V("stored_revision", stored.Revision),
				goerr.V("given_revision", doc.Revision))
		}

		updated.Revision = stored.Revision + 1
		updated.CreatedAt = stored.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(docRef, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update document",
			goerr.V(model.GroupIDKey, doc.GroupID),
			goerr.V(model.ItemNumberKey, doc.ItemNumber),
			goerr.V(model.DocumentNumberKey, doc.DocumentNumber))
	}
	return updated.toModel(), nil
}

func (r *documentRepository) Delete(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int) error {
	docRef := r.client.Collection(r.collection()).Doc(docID(groupID, itemNumber, documentNumber))
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrDocumentNotFound, "document not found",
				goerr.V(model.GroupIDKey, groupID),
				goerr.V(model.ItemNumberKey, itemNumber),
				goerr.V(model.DocumentNumberKey, documentNumber))
		}
		return goerr.Wrap(err, "failed to get document for delete")
	}
	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete document")
	}
	return nil
}
