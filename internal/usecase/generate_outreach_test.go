package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/prompts"
)

const draftJSON = `{"subject": "Quick idea for Acme", "message": "Hi Pat, worth a chat?"}`

func outreachFixture(latest *entity.Interaction) (*MockLeadRepository, *MockInteractionRepository, *MockModelClient) {
	repo := new(MockLeadRepository)
	interactions := new(MockInteractionRepository)
	model := new(MockModelClient)

	repo.On("FindByID", mock.Anything, int64(1)).Return(&entity.Lead{
		ID: 1, Name: "Pat Lee", Title: strPtr("CTO"), Company: strPtr("Acme Inc."),
	}, nil)
	interactions.On("Latest", mock.Anything, int64(1), entity.KindQualification).Return(latest, nil)
	interactions.On("Add", mock.Anything, int64(1), entity.KindOutreach, mock.Anything).
		Return(&entity.Interaction{ID: 11, LeadID: 1, Kind: entity.KindOutreach}, nil)
	return repo, interactions, model
}

func TestGenerateOutreachWithoutQualification(t *testing.T) {
	repo, interactions, model := outreachFixture(nil)

	var userPrompt string
	model.On("Chat", mock.Anything, prompts.OutreachSystem, mock.Anything).
		Run(func(args mock.Arguments) { userPrompt = args.String(2) }).
		Return(chatReply(draftJSON), nil)

	out, err := NewGenerateOutreachUseCase(repo, interactions, model, zap.NewNop()).Execute(context.Background(), GenerateOutreachInput{
		LeadID: 1, Channel: "linkedin", Tone: "friendly", ValueProp: "Book 2x more meetings",
	})
	require.NoError(t, err)

	assert.Contains(t, userPrompt, "- Tags: \n")
	assert.Contains(t, userPrompt, "- Rationale: \n")
	assert.Contains(t, userPrompt, "Channel: linkedin")
	assert.Contains(t, userPrompt, "Tone: friendly.")
	assert.Equal(t, "Quick idea for Acme", out.Result.String("subject"))
	assert.Equal(t, int64(11), out.Interaction.ID)
	interactions.AssertExpectations(t)
}

func TestGenerateOutreachUsesLatestQualification(t *testing.T) {
	latest := &entity.Interaction{ID: 4, LeadID: 1, Kind: entity.KindQualification,
		Content: `{"score": 80, "rationale": "Strong ICP fit", "tags": ["ai", "saas", 3]}`}
	repo, interactions, model := outreachFixture(latest)

	var userPrompt string
	model.On("Chat", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { userPrompt = args.String(2) }).
		Return(chatReply(draftJSON), nil)

	_, err := NewGenerateOutreachUseCase(repo, interactions, model, zap.NewNop()).
		Execute(context.Background(), GenerateOutreachInput{LeadID: 1})
	require.NoError(t, err)

	assert.Contains(t, userPrompt, "- Tags: ai, saas\n")
	assert.Contains(t, userPrompt, "- Rationale: Strong ICP fit\n")
	assert.Contains(t, userPrompt, "Channel: email")
	assert.Contains(t, userPrompt, "Tone: "+DefaultTone+".")
	assert.Contains(t, userPrompt, "Value prop: "+DefaultValueProp)
}

func TestGenerateOutreachIgnoresUndecodableQualification(t *testing.T) {
	latest := &entity.Interaction{ID: 4, LeadID: 1, Kind: entity.KindQualification, Content: "not json"}
	repo, interactions, model := outreachFixture(latest)

	var userPrompt string
	model.On("Chat", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { userPrompt = args.String(2) }).
		Return(chatReply(draftJSON), nil)

	out, err := NewGenerateOutreachUseCase(repo, interactions, model, zap.NewNop()).
		Execute(context.Background(), GenerateOutreachInput{LeadID: 1})
	require.NoError(t, err)
	assert.True(t, out.Result.OK())
	assert.Contains(t, userPrompt, "- Tags: \n")
}

func TestGenerateOutreachRecordsParseFailure(t *testing.T) {
	repo, interactions, model := outreachFixture(nil)
	model.On("Chat", mock.Anything, mock.Anything, mock.Anything).Return(chatReply("```json\n{\"subject\": "), nil)

	out, err := NewGenerateOutreachUseCase(repo, interactions, model, zap.NewNop()).
		Execute(context.Background(), GenerateOutreachInput{LeadID: 1})
	require.NoError(t, err)
	assert.False(t, out.Result.OK())

	interactions.AssertCalled(t, "Add", mock.Anything, int64(1), entity.KindOutreach,
		mock.MatchedBy(func(c string) bool { return strings.Contains(c, `"error":"failed to parse model response"`) }))
}

func TestGenerateOutreachRejectsUnknownChannel(t *testing.T) {
	repo := new(MockLeadRepository)
	_, err := NewGenerateOutreachUseCase(repo, new(MockInteractionRepository), new(MockModelClient), zap.NewNop()).
		Execute(context.Background(), GenerateOutreachInput{LeadID: 1, Channel: "fax"})

	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeInvalidChannel, de.Code)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGenerateOutreachSucceedsWithAndWithoutQualification(t *testing.T) {
	leads, interactions := newTestStore(t)
	ctx := context.Background()

	lead, err := NewCreateLeadUseCase(leads, zap.NewNop()).Execute(ctx, CreateLeadInput{Name: "Pat Lee", Email: "pat@acme.com"})
	require.NoError(t, err)

	model := new(MockModelClient)
	model.On("Chat", mock.Anything, mock.Anything, mock.Anything).Return(chatReply(draftJSON), nil)
	uc := NewGenerateOutreachUseCase(leads, interactions, model, zap.NewNop())

	first, err := uc.Execute(ctx, GenerateOutreachInput{LeadID: lead.ID})
	require.NoError(t, err)

	_, err = interactions.Add(ctx, lead.ID, entity.KindQualification, `{"score": 70, "rationale": "ok", "tags": ["ai"]}`)
	require.NoError(t, err)

	second, err := uc.Execute(ctx, GenerateOutreachInput{LeadID: lead.ID})
	require.NoError(t, err)

	assert.Equal(t, first.Result.Data, second.Result.Data)

	history, err := interactions.ListByLead(ctx, lead.ID)
	require.NoError(t, err)
	kinds := make([]string, 0, len(history))
	for _, ia := range history {
		kinds = append(kinds, ia.Kind)
	}
	assert.Equal(t, []string{entity.KindOutreach, entity.KindQualification, entity.KindOutreach}, kinds)
}
