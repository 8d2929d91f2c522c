package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
)

type CreateLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Logger *zap.Logger
	now    func() time.Time
}

func NewCreateLeadUseCase(repo entity.LeadRepositoryInterface, logger *zap.Logger) *CreateLeadUseCase {
	return &CreateLeadUseCase{Repo: repo, Logger: logger, now: time.Now}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	lead, err := entity.NewLead(input.Name, input.Email, input.Company, input.Title,
		input.Website, input.LinkedIn, input.Notes, uc.now())
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	if err := uc.Repo.Create(ctx, lead); err != nil {
		return nil, storeError("create lead", err)
	}

	uc.Logger.Info("lead created", zap.Int64("lead_id", lead.ID))
	return lead, nil
}
