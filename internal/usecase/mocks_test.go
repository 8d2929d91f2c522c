package usecase

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/database"
	"github.com/xavierca1/leadflow/internal/infra/integration/grok"
	"github.com/xavierca1/leadflow/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListByID(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateScore(ctx context.Context, id int64, score *int, updatedAt time.Time) error {
	args := m.Called(ctx, id, score, updatedAt)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockInteractionRepository
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Add(ctx context.Context, leadID int64, kind, content string) (*entity.Interaction, error) {
	args := m.Called(ctx, leadID, kind, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Interaction), args.Error(1)
}

func (m *MockInteractionRepository) ListByLead(ctx context.Context, leadID int64) ([]*entity.Interaction, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Interaction), args.Error(1)
}

func (m *MockInteractionRepository) Latest(ctx context.Context, leadID int64, kind string) (*entity.Interaction, error) {
	args := m.Called(ctx, leadID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Interaction), args.Error(1)
}

func (m *MockInteractionRepository) FindByID(ctx context.Context, id int64) (*entity.Interaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Interaction), args.Error(1)
}

// MockModelClient
type MockModelClient struct {
	mock.Mock
}

func (m *MockModelClient) Chat(ctx context.Context, system, user string) (*grok.ChatResponse, error) {
	args := m.Called(ctx, system, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grok.ChatResponse), args.Error(1)
}

func (m *MockModelClient) IsDryRun() bool {
	return m.Called().Bool(0)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) DispatchOutreach(ctx context.Context, payload queue.OutreachPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// chatReply builds a provider response whose first choice carries content.
func chatReply(content string) *grok.ChatResponse {
	return &grok.ChatResponse{
		Choices: []grok.Choice{{Message: grok.ChatMessage{Role: "assistant", Content: content}}},
		Raw:     []byte(`{"choices":[{"message":{"content":"stub"}}]}`),
	}
}

func newTestStore(t *testing.T) (*database.LeadRepository, *database.InteractionRepository) {
	t.Helper()

	db, err := database.NewDBConnection(context.Background(), database.DriverSQLite, filepath.Join(t.TempDir(), "leadflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return database.NewLeadRepository(db), database.NewInteractionRepository(db)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
