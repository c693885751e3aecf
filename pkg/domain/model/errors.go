package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors: rejected before any state change
var (
	ErrInvalidScoreInput = goerr.New("score input outside configured scale")
	ErrRiskMatrixConfig  = goerr.New("risk matrix configuration is invalid")
)

// Integrity errors: protect referential invariants
var (
	ErrUnknownGroup         = goerr.New("group does not exist")
	ErrItemNotFound         = goerr.New("item not found")
	ErrDocumentNotFound     = goerr.New("document not found")
	ErrItemHasOpenDocuments = goerr.New("item has open documents")
)

// Workflow errors: illegal state transitions, never retried automatically
var (
	ErrOutOfSequenceApproval = goerr.New("approval completed out of sequence")
	ErrDocumentImmutable     = goerr.New("document is completed and immutable")
	ErrAlreadyDone           = goerr.New("already completed")
	ErrTargetNotFound        = goerr.New("signature target not found")
	ErrRowNotFound           = goerr.New("remediation row not found")
)

// Concurrency errors: expected under contention, the caller re-fetches
// and retries
var (
	ErrConcurrentModification = goerr.New("document was modified concurrently")
)

// Context keys for error values
const (
	GroupIDKey        = "group_id"
	ItemNumberKey     = "item_number"
	DocumentNumberKey = "document_number"
	TargetIDKey       = "target_id"
	RowIDKey          = "row_id"
	FrequencyKey      = "frequency"
	SeverityKey       = "severity"
	ValueKey          = "value"
)
