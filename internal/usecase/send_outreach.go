package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/queue"
)

type SendOutreachUseCase struct {
	Repo         entity.LeadRepositoryInterface
	Interactions entity.InteractionRepositoryInterface
	Dispatcher   OutreachDispatcher
	Logger       *zap.Logger
}

func NewSendOutreachUseCase(
	repo entity.LeadRepositoryInterface,
	interactions entity.InteractionRepositoryInterface,
	dispatcher OutreachDispatcher,
	logger *zap.Logger,
) *SendOutreachUseCase {
	return &SendOutreachUseCase{
		Repo:         repo,
		Interactions: interactions,
		Dispatcher:   dispatcher,
		Logger:       logger,
	}
}

type outreachDraft struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	Channel string `json:"channel"`
}

// Execute hands a generated outreach draft to the dispatcher and records the
// hand-off as a note on the lead.
func (uc *SendOutreachUseCase) Execute(ctx context.Context, input SendOutreachInput) (*SendOutreachOutput, error) {
	lead, err := uc.Repo.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, storeError("find lead", err)
	}

	ia, err := uc.Interactions.FindByID(ctx, input.InteractionID)
	if err != nil {
		return nil, storeError("find interaction", err)
	}
	if ia.LeadID != lead.ID {
		return nil, entity.ErrInteractionNotFound
	}
	if ia.Kind != entity.KindOutreach {
		return nil, &DomainError{Code: CodeNotOutreach, Message: fmt.Sprintf("interaction %d is a %s, not an outreach draft", ia.ID, ia.Kind)}
	}

	to := entity.Value(lead.Email)
	if to == "" {
		return nil, &DomainError{Code: CodeNoEmail, Message: "lead has no email address"}
	}

	var draft outreachDraft
	if err := json.Unmarshal([]byte(ia.Content), &draft); err != nil || draft.Subject == "" || draft.Message == "" {
		return nil, &DomainError{Code: CodeUnusableDraft, Message: "outreach draft has no subject or message"}
	}
	if draft.Channel == "" {
		draft.Channel = DefaultChannel
	}
	if draft.Channel != DefaultChannel {
		return nil, &DomainError{
			Code:    CodeNotDeliverable,
			Message: fmt.Sprintf("%s drafts are sent by hand; only email is delivered", draft.Channel),
		}
	}

	payload := queue.OutreachPayload{
		MessageID:     uuid.NewString(),
		LeadID:        lead.ID,
		InteractionID: ia.ID,
		Channel:       draft.Channel,
		To:            to,
		Name:          lead.Name,
		Subject:       draft.Subject,
		Body:          draft.Message,
		Origin:        "leadflow",
	}

	if err := uc.Dispatcher.DispatchOutreach(ctx, payload); err != nil {
		uc.Logger.Error("outreach dispatch failed",
			zap.Int64("lead_id", lead.ID),
			zap.Int64("interaction_id", ia.ID),
			zap.Error(err),
		)
		return nil, &TechnicalError{Code: CodeDispatch, Message: "dispatch outreach: " + err.Error(), Err: err}
	}

	noteText := fmt.Sprintf("Outreach %d dispatched to %s (message %s): %s", ia.ID, to, payload.MessageID, draft.Subject)
	note, err := uc.Interactions.Add(ctx, lead.ID, entity.KindNote, noteText)
	if err != nil {
		// The message is already handed off; a missing note is only logged.
		uc.Logger.Warn("outreach dispatched but note not recorded",
			zap.String("message_id", payload.MessageID),
			zap.Error(err),
		)
	}

	uc.Logger.Info("outreach dispatched",
		zap.Int64("lead_id", lead.ID),
		zap.Int64("interaction_id", ia.ID),
		zap.String("message_id", payload.MessageID),
	)
	return &SendOutreachOutput{
		MessageID: payload.MessageID,
		To:        to,
		Subject:   draft.Subject,
		Note:      note,
	}, nil
}
