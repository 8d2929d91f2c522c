package usecase

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/integration/grok"
	"github.com/xavierca1/leadflow/internal/prompts"
)

type GenerateOutreachUseCase struct {
	Repo         entity.LeadRepositoryInterface
	Interactions entity.InteractionRepositoryInterface
	Model        ModelClient
	Logger       *zap.Logger
}

func NewGenerateOutreachUseCase(
	repo entity.LeadRepositoryInterface,
	interactions entity.InteractionRepositoryInterface,
	model ModelClient,
	logger *zap.Logger,
) *GenerateOutreachUseCase {
	return &GenerateOutreachUseCase{
		Repo:         repo,
		Interactions: interactions,
		Model:        model,
		Logger:       logger,
	}
}

// Execute drafts a first-touch message using the latest qualification as
// context and appends the draft as an outreach interaction.
func (uc *GenerateOutreachUseCase) Execute(ctx context.Context, input GenerateOutreachInput) (*WorkflowOutput, error) {
	params, err := outreachParams(input)
	if err != nil {
		return nil, err
	}

	lead, err := uc.Repo.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, storeError("find lead", err)
	}

	prior, err := uc.priorQualification(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	system, user := prompts.Outreach(leadFields(lead), prior, params)

	result, err := callModel(ctx, uc.Model, workflowOutreach, system, user)
	if err != nil {
		uc.Logger.Error("outreach model call failed", zap.Int64("lead_id", input.LeadID), zap.Error(err))
		return nil, err
	}

	content, err := draftContent(result, params.Channel)
	if err != nil {
		return nil, &TechnicalError{Code: CodeModel, Message: "encode model result: " + err.Error(), Err: err}
	}

	ia, err := uc.Interactions.Add(ctx, input.LeadID, entity.KindOutreach, string(content))
	if err != nil {
		return nil, storeError("record outreach", err)
	}

	uc.Logger.Info("outreach generated",
		zap.Int64("lead_id", input.LeadID),
		zap.String("channel", params.Channel),
		zap.Bool("parsed", result.OK()),
	)
	return &WorkflowOutput{Result: result, Interaction: ia}, nil
}

// draftContent is the stored form of a draft: the parsed result with the
// channel it was written for. A parse failure is stored as the sentinel alone.
func draftContent(result grok.Structured, channel string) ([]byte, error) {
	if !result.OK() {
		return json.Marshal(result)
	}
	stored := make(map[string]any, len(result.Data)+1)
	for k, v := range result.Data {
		stored[k] = v
	}
	stored["channel"] = channel
	return json.Marshal(stored)
}

// priorQualification reads tags and rationale from the latest qualification.
// Content that does not decode yields the zero value.
func (uc *GenerateOutreachUseCase) priorQualification(ctx context.Context, leadID int64) (prompts.PriorQualification, error) {
	latest, err := uc.Interactions.Latest(ctx, leadID, entity.KindQualification)
	if err != nil {
		return prompts.PriorQualification{}, storeError("latest qualification", err)
	}
	if latest == nil {
		return prompts.PriorQualification{}, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(latest.Content), &data); err != nil {
		uc.Logger.Debug("previous qualification not decodable", zap.Int64("interaction_id", latest.ID))
		return prompts.PriorQualification{}, nil
	}

	prior := grok.Structured{Data: data}
	return prompts.PriorQualification{
		Tags:      prior.Strings("tags"),
		Rationale: prior.String("rationale"),
	}, nil
}

func outreachParams(input GenerateOutreachInput) (prompts.OutreachParams, error) {
	params := prompts.OutreachParams{
		Channel:   strings.ToLower(strings.TrimSpace(input.Channel)),
		Tone:      strings.TrimSpace(input.Tone),
		ValueProp: strings.TrimSpace(input.ValueProp),
	}
	if params.Channel == "" {
		params.Channel = DefaultChannel
	}
	if params.Tone == "" {
		params.Tone = DefaultTone
	}
	if params.ValueProp == "" {
		params.ValueProp = DefaultValueProp
	}

	if !slices.Contains(prompts.Channels, params.Channel) {
		return params, &DomainError{
			Code:    CodeInvalidChannel,
			Message: "channel must be one of: " + strings.Join(prompts.Channels, ", "),
			Fields:  []ValidationError{{"channel", "is not supported"}},
		}
	}
	return params, nil
}
