package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/types"
)

// SignatureTarget is one participant in a document's approval or
// signature protocol. Order is meaningful only for approval targets.
type SignatureTarget struct {
	ID          string
	Name        string
	Role        string
	Type        types.TargetType
	Order       int
	Status      types.TargetStatus
	CompletedAt *time.Time
}

// Validate checks if the SignatureTarget is valid
func (t *SignatureTarget) Validate() error {
	if t.ID == "" {
		return goerr.New("target ID is required")
	}
	if t.Name == "" {
		return goerr.New("target name is required", goerr.V(TargetIDKey, t.ID))
	}
	if !t.Type.IsValid() {
		return goerr.New("invalid target type", goerr.V(TargetIDKey, t.ID), goerr.V("type", t.Type))
	}
	if t.Type == types.TargetTypeApproval && t.Order < 1 {
		return goerr.New("approval target requires a positive order",
			goerr.V(TargetIDKey, t.ID), goerr.V("order", t.Order))
	}
	return nil
}

// validateTargetSet checks that approval orders form a contiguous
// chain 1..n with no duplicates.
func validateTargetSet(targets []SignatureTarget) error {
	seen := make(map[string]bool, len(targets))
	orders := make(map[int]bool)
	var approvals int

	for i := range targets {
		t := &targets[i]
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID] {
			return goerr.New("duplicate target ID", goerr.V(TargetIDKey, t.ID))
		}
		seen[t.ID] = true

		if t.Type != types.TargetTypeApproval {
			continue
		}
		if orders[t.Order] {
			return goerr.New("duplicate approval order", goerr.V("order", t.Order))
		}
		orders[t.Order] = true
		approvals++
	}

	for k := 1; k <= approvals; k++ {
		if !orders[k] {
			return goerr.New("approval orders must be contiguous from 1", goerr.V("missing_order", k))
		}
	}
	return nil
}
