package usecase

import (
	"github.com/safework-lab/talos/pkg/domain/interfaces"
	"github.com/safework-lab/talos/pkg/domain/model/config"
)

// UseCases bundles all application operations over one repository
type UseCases struct {
	repo         interfaces.Repository
	matrix       *config.RiskMatrix
	statusPolicy *config.StatusPolicy
	notifier     interfaces.Notifier

	Catalog     *CatalogUseCase
	Workflow    *WorkflowUseCase
	Remediation *RemediationUseCase
	Status      *StatusUseCase
}

type Option func(*UseCases)

// WithRiskMatrix replaces the default scoring matrix
func WithRiskMatrix(matrix *config.RiskMatrix) Option {
	return func(uc *UseCases) {
		uc.matrix = matrix
	}
}

// WithStatusPolicy replaces the default approaching-window policy
func WithStatusPolicy(policy *config.StatusPolicy) Option {
	return func(uc *UseCases) {
		uc.statusPolicy = policy
	}
}

// WithNotifier sets the event sink for workflow notifications
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:         repo,
		matrix:       config.DefaultRiskMatrix(),
		statusPolicy: config.DefaultStatusPolicy(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Catalog = NewCatalogUseCase(repo, uc.statusPolicy)
	uc.Workflow = NewWorkflowUseCase(repo, uc.notifier)
	uc.Remediation = NewRemediationUseCase(repo, uc.matrix)
	uc.Status = NewStatusUseCase(repo, uc.statusPolicy, uc.notifier)

	return uc
}

// Matrix returns the active risk matrix
func (uc *UseCases) Matrix() *config.RiskMatrix {
	return uc.matrix
}
