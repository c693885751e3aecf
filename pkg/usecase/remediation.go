package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safework-lab/talos/pkg/domain/interfaces"
	"github.com/safework-lab/talos/pkg/domain/model"
	"github.com/safework-lab/talos/pkg/domain/model/config"
	"github.com/safework-lab/talos/pkg/domain/types"
)

// RemediationUseCase manages a document's hierarchy-of-controls rows.
// Risk scores are always produced by the matrix here, never
// hand-built by callers.
type RemediationUseCase struct {
	repo   interfaces.Repository
	matrix *config.RiskMatrix
}

func NewRemediationUseCase(repo interfaces.Repository, matrix *config.RiskMatrix) *RemediationUseCase {
	if matrix == nil {
		matrix = config.DefaultRiskMatrix()
	}
	return &RemediationUseCase{
		repo:   repo,
		matrix: matrix,
	}
}

// Evaluate scores a hazard on the active matrix
func (uc *RemediationUseCase) Evaluate(frequency, severity int) (model.RiskScore, error) {
	return model.EvaluateRisk(frequency, severity, uc.matrix)
}

// RowInput is the caller-supplied shape of a remediation row; risk
// values arrive as raw frequency/severity pairs.
type RowInput struct {
	Hazard           string
	ControlTier      types.ControlTier
	CurrentFrequency int
	CurrentSeverity  int
	ProposedMeasure  string
	PostFrequency    int
	PostSeverity     int
	Owner            string
	DueDate          time.Time
}

// AddRow evaluates both risk scores, appends the row, and persists the
// document. A post-measure risk above the current risk comes back as a
// warning next to the updated document, never as a silent accept.
func (uc *RemediationUseCase) AddRow(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int, input RowInput) (*model.Document, *model.RiskIncreaseWarning, error) {
	currentRisk, err := model.EvaluateRisk(input.CurrentFrequency, input.CurrentSeverity, uc.matrix)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "invalid current risk")
	}
	postRisk, err := model.EvaluateRisk(input.PostFrequency, input.PostSeverity, uc.matrix)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "invalid post-measure risk")
	}

	doc, err := uc.repo.Document().Get(ctx, groupID, itemNumber, documentNumber)
	if err != nil {
		return nil, nil, err
	}

	row := model.RemediationRow{
		ID:              uuid.NewString(),
		Hazard:          input.Hazard,
		ControlTier:     input.ControlTier,
		CurrentRisk:     currentRisk,
		ProposedMeasure: input.ProposedMeasure,
		PostRisk:        postRisk,
		Owner:           input.Owner,
		DueDate:         input.DueDate,
	}

	warning, err := doc.AddRow(row, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}

	updated, err := uc.repo.Document().Update(ctx, doc)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to persist remediation row",
			goerr.V(RowIDKey, row.ID))
	}
	return updated, warning, nil
}

// MarkDone completes a remediation row. Completing twice is an
// explicit error, not a silent second success.
func (uc *RemediationUseCase) MarkDone(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int, rowID string, completedAt time.Time) (*model.Document, error) {
	doc, err := uc.repo.Document().Get(ctx, groupID, itemNumber, documentNumber)
	if err != nil {
		return nil, err
	}
	if err := doc.MarkRowDone(rowID, completedAt); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Document().Update(ctx, doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to persist row completion",
			goerr.V(RowIDKey, rowID))
	}
	return updated, nil
}

// CompletionRate returns the done percentage of one tier for a document
func (uc *RemediationUseCase) CompletionRate(ctx context.Context, groupID types.GroupID, itemNumber, documentNumber int, tier types.ControlTier) (int, error) {
	doc, err := uc.repo.Document().Get(ctx, groupID, itemNumber, documentNumber)
	if err != nil {
		return 0, err
	}
	return doc.CompletionRate(tier), nil
}
