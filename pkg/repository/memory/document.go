package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/types"
)

type documentKey struct {
	groupID        types.GroupID
	itemNumber     int
	documentNumber int
}

type documentRepository struct {
	mu        sync.RWMutex
	documents map[documentKey]*model.Document
	// sequence counters scoped per (groupID, itemNumber); never
	// decremented, so deleted documents keep their audit trail
	nextSeq map[itemKey]int64
}

func newDocumentRepository() *documentRepository {
	return &documentRepository{
		documents: make(map[documentKey]*model.Document),
		nextSeq:   make(map[itemKey]int64),
	}
}

func copyDocument(d *model.Document) *model.Document {
	copied := *d

	if d.Rows != nil {
		copied.Rows = make([]model.RemediationRow, len(d.Rows))
		copy(copied.Rows, d.Rows)
		for i := range copied.Rows {
			if d.Rows[i].CompletedAt != nil {
				at := *d.Rows[i].CompletedAt
				copied.Rows[i].CompletedAt = &at
			}
		}
	}

	if d.Targets != nil {
		copied.Targets = make([]model.SignatureTarget, len(d.Targets))
		copy(copied.Targets, d.Targets)
		for i := range copied.Targets {
			if d.Targets[i].CompletedAt != nil {
				at := *d.Targets[i].CompletedAt
				copied.Targets[i].CompletedAt = &at
			}
		}
	}

	return &copied
}

func (r *documentRepository) key(d *model.Document) documentKey {
	return documentKey{groupID: d.GroupID, itemNumber: d.ItemNumber, documentNumber: d.DocumentNumber}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.key(doc)
	if _, exists := r.documents[key]; exists {
		return nil, goerr.New("document already exists",
			goerr.V(model.GroupIDKey, doc.GroupID),
			goerr.V(model.ItemNumberKey, doc.ItemNumber),
			goerr.V(model.DocumentNumberKey, doc.DocumentNumber))
	}

	now := time.Now().UTC()
	created := copyDocument(doc)

	seqKey := itemKey{groupID: doc.GroupID, itemNumber: doc.ItemNumber}
	if doc.Sequence > 0 {
		// Seeded sequence from an import; keep the counter ahead of it
		if doc.Sequence > r.nextSeq[seqKey] {
			r.nextSeq[seqKey] = doc.Sequence
		}
	} else {
		r.nextSeq[seqKey]++
		created.Sequence = r.nextSeq[seqKey]
	}

	created.Revision = 1
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.RegisteredAt.IsZero() {
		created.RegisteredAt = now
	}

	r.documents[key] = created
	return copyDocument(created), nil
}

func (r *documentRepository) Get(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int) (*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, exists := r.documents[documentKey{groupID: groupID, itemNumber: itemNumber, documentNumber: documentNumber}]
	if !exists {
		return nil, goerr.Wrap(model.ErrDocumentNotFound, "document not found",
			goerr.V(model.GroupIDKey, groupID),
			goerr.V(model.ItemNumberKey, itemNumber),
			goerr.V(model.DocumentNumberKey, documentNumber))
	}
	return copyDocument(doc), nil
}

func sortDocuments(docs []*model.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].GroupID != docs[j].GroupID {
			return docs[i].GroupID < docs[j].GroupID
		}
		if docs[i].ItemNumber != docs[j].ItemNumber {
			return docs[i].ItemNumber < docs[j].ItemNumber
		}
		return docs[i].DocumentNumber < docs[j].DocumentNumber
	})
}

func (r *documentRepository) ListByItem(ctx context.Context, groupID types.GroupID, itemNumber int) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*model.Document, 0)
	for key, doc := range r.documents {
		if key.groupID == groupID && key.itemNumber == itemNumber {
			docs = append(docs, copyDocument(doc))
		}
	}
	sortDocuments(docs)
	return docs, nil
}

func (r *documentRepository) List(ctx context.Context) ([]*model.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]*model.Document, 0, len(r.documents))
	for _, doc := range r.documents {
		docs = append(docs, copyDocument(doc))
	}
	sortDocuments(docs)
	return docs, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.key(doc)
	stored, exists := r.documents[key]
	if !exists {
		return nil, goerr.Wrap(model.ErrDocumentNotFound, "document not found",
			goerr.V(model.GroupIDKey, doc.GroupID),
			goerr.V(model.ItemNumberKey, doc.ItemNumber),
			goerr.V(model.DocumentNumberKey, doc.DocumentNumber))
	}
	if stored.Revision != doc.Revision {
		return nil, goerr.Wrap(model.ErrConcurrentModification, "revision mismatch",
			goerr.V("stored_revision", stored.Revision),
			goerr.V("given_revision", doc.Revision))
	}

	updated := copyDocument(doc)
	updated.Revision = stored.Revision + 1
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.documents[key] = updated
	return copyDocument(updated), nil
}

func (r *documentRepository) Delete(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := documentKey{groupID: groupID, itemNumber: itemNumber, documentNumber: documentNumber}
	if _, exists := r.documents[key]; !exists {
		return goerr.Wrap(model.ErrDocumentNotFound, "document not found",
			goerr.V(model.GroupIDKey, groupID),
			goerr.V(model.ItemNumberKey, itemNumber),
			goerr.V(model.DocumentNumberKey, documentNumber))
	}
	delete(r.documents, key)
	return nil
}
