package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
)

func seedLeads(t *testing.T, uc *CreateLeadUseCase, names ...string) []*entity.Lead {
	t.Helper()

	out := make([]*entity.Lead, 0, len(names))
	for _, name := range names {
		lead, err := uc.Execute(context.Background(), CreateLeadInput{Name: name, Email: "lead@example.com"})
		require.NoError(t, err)
		out = append(out, lead)
	}
	return out
}

func TestDeleteLeadRemovesInteractions(t *testing.T) {
	leads, interactions := newTestStore(t)
	ctx := context.Background()
	seeded := seedLeads(t, NewCreateLeadUseCase(leads, zap.NewNop()), "Pat Lee", "Riley Chen")

	notes := NewAddNoteUseCase(interactions, zap.NewNop())
	for _, l := range seeded {
		_, err := notes.Execute(ctx, AddNoteInput{LeadID: l.ID, Text: "called"})
		require.NoError(t, err)
	}

	require.NoError(t, NewDeleteLeadUseCase(leads, zap.NewNop()).Execute(ctx, seeded[0].ID))

	_, err := NewGetLeadUseCase(leads, interactions).Execute(ctx, seeded[0].ID)
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)

	orphans, err := interactions.ListByLead(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	kept, err := interactions.ListByLead(ctx, seeded[1].ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	err = NewDeleteLeadUseCase(leads, zap.NewNop()).Execute(ctx, seeded[0].ID)
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestClearAllDataLeavesNothing(t *testing.T) {
	leads, interactions := newTestStore(t)
	ctx := context.Background()
	seeded := seedLeads(t, NewCreateLeadUseCase(leads, zap.NewNop()), "Pat Lee", "Riley Chen", "Jordan Patel")

	for _, l := range seeded {
		_, err := interactions.Add(ctx, l.ID, entity.KindQualification, `{"score": 60}`)
		require.NoError(t, err)
	}

	require.NoError(t, NewClearAllDataUseCase(leads, zap.NewNop()).Execute(ctx))

	all, err := NewListLeadsUseCase(leads).Execute(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, l := range seeded {
		history, err := interactions.ListByLead(ctx, l.ID)
		require.NoError(t, err)
		assert.Empty(t, history)
	}
}

func TestListLeadsNewestFirst(t *testing.T) {
	leads, _ := newTestStore(t)
	seeded := seedLeads(t, NewCreateLeadUseCase(leads, zap.NewNop()), "Pat Lee", "Riley Chen")

	all, err := NewListLeadsUseCase(leads).Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, seeded[1].ID, all[0].ID)
	assert.Equal(t, seeded[0].ID, all[1].ID)
}

func TestAddNote(t *testing.T) {
	leads, interactions := newTestStore(t)
	ctx := context.Background()
	seeded := seedLeads(t, NewCreateLeadUseCase(leads, zap.NewNop()), "Pat Lee")
	uc := NewAddNoteUseCase(interactions, zap.NewNop())

	note, err := uc.Execute(ctx, AddNoteInput{LeadID: seeded[0].ID, Text: "  Prefers email  "})
	require.NoError(t, err)
	assert.Equal(t, entity.KindNote, note.Kind)
	assert.Equal(t, "Prefers email", note.Content)

	_, err = uc.Execute(ctx, AddNoteInput{LeadID: seeded[0].ID, Text: " "})
	assert.True(t, IsDomainError(err))

	_, err = uc.Execute(ctx, AddNoteInput{LeadID: 999, Text: "hello"})
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestListInteractionsUnknownLead(t *testing.T) {
	leads, interactions := newTestStore(t)

	_, err := NewListInteractionsUseCase(leads, interactions).Execute(context.Background(), 42)
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}
