package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
)

type ListLeadsUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewListLeadsUseCase(repo entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

// Execute returns every lead, newest first.
func (uc *ListLeadsUseCase) Execute(ctx context.Context) ([]*entity.Lead, error) {
	leads, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, storeError("list leads", err)
	}
	return leads, nil
}

type GetLeadUseCase struct {
	Repo         entity.LeadRepositoryInterface
	Interactions entity.InteractionRepositoryInterface
}

func NewGetLeadUseCase(repo entity.LeadRepositoryInterface, interactions entity.InteractionRepositoryInterface) *GetLeadUseCase {
	return &GetLeadUseCase{Repo: repo, Interactions: interactions}
}

func (uc *GetLeadUseCase) Execute(ctx context.Context, leadID int64) (*LeadDetailOutput, error) {
	lead, err := uc.Repo.FindByID(ctx, leadID)
	if err != nil {
		return nil, storeError("find lead", err)
	}

	history, err := uc.Interactions.ListByLead(ctx, leadID)
	if err != nil {
		return nil, storeError("list interactions", err)
	}

	return &LeadDetailOutput{Lead: lead, Interactions: history}, nil
}

type ListInteractionsUseCase struct {
	Repo         entity.LeadRepositoryInterface
	Interactions entity.InteractionRepositoryInterface
}

func NewListInteractionsUseCase(repo entity.LeadRepositoryInterface, interactions entity.InteractionRepositoryInterface) *ListInteractionsUseCase {
	return &ListInteractionsUseCase{Repo: repo, Interactions: interactions}
}

// Execute lists the lead's history newest first. An unknown lead is an error
// rather than an empty list.
func (uc *ListInteractionsUseCase) Execute(ctx context.Context, leadID int64) ([]*entity.Interaction, error) {
	if _, err := uc.Repo.FindByID(ctx, leadID); err != nil {
		return nil, storeError("find lead", err)
	}
	history, err := uc.Interactions.ListByLead(ctx, leadID)
	if err != nil {
		return nil, storeError("list interactions", err)
	}
	return history, nil
}

type AddNoteUseCase struct {
	Interactions entity.InteractionRepositoryInterface
	Logger       *zap.Logger
}

func NewAddNoteUseCase(interactions entity.InteractionRepositoryInterface, logger *zap.Logger) *AddNoteUseCase {
	return &AddNoteUseCase{Interactions: interactions, Logger: logger}
}

func (uc *AddNoteUseCase) Execute(ctx context.Context, input AddNoteInput) (*entity.Interaction, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, validationFailed([]ValidationError{{"text", "is required"}})
	}

	note, err := uc.Interactions.Add(ctx, input.LeadID, entity.KindNote, text)
	if err != nil {
		return nil, storeError("add note", err)
	}

	uc.Logger.Info("note added", zap.Int64("lead_id", input.LeadID), zap.Int64("interaction_id", note.ID))
	return note, nil
}

type DeleteLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Logger *zap.Logger
}

func NewDeleteLeadUseCase(repo entity.LeadRepositoryInterface, logger *zap.Logger) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{Repo: repo, Logger: logger}
}

// Execute removes the lead together with its interactions.
func (uc *DeleteLeadUseCase) Execute(ctx context.Context, leadID int64) error {
	if err := uc.Repo.Delete(ctx, leadID); err != nil {
		return storeError("delete lead", err)
	}
	uc.Logger.Info("lead deleted", zap.Int64("lead_id", leadID))
	return nil
}

type ClearAllDataUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Logger *zap.Logger
}

func NewClearAllDataUseCase(repo entity.LeadRepositoryInterface, logger *zap.Logger) *ClearAllDataUseCase {
	return &ClearAllDataUseCase{Repo: repo, Logger: logger}
}

func (uc *ClearAllDataUseCase) Execute(ctx context.Context) error {
	if err := uc.Repo.DeleteAll(ctx); err != nil {
		return storeError("clear all data", err)
	}
	uc.Logger.Warn("all leads and interactions deleted")
	return nil
}
