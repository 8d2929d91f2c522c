package usecase

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/integration/grok"
	"github.com/xavierca1/leadflow/internal/infra/metrics"
	"github.com/xavierca1/leadflow/internal/prompts"
)

const (
	workflowQualify  = "qualify"
	workflowOutreach = "outreach"
)

type QualifyLeadUseCase struct {
	Repo         entity.LeadRepositoryInterface
	Interactions entity.InteractionRepositoryInterface
	Model        ModelClient
	Logger       *zap.Logger
	now          func() time.Time
}

func NewQualifyLeadUseCase(
	repo entity.LeadRepositoryInterface,
	interactions entity.InteractionRepositoryInterface,
	model ModelClient,
	logger *zap.Logger,
) *QualifyLeadUseCase {
	return &QualifyLeadUseCase{
		Repo:         repo,
		Interactions: interactions,
		Model:        model,
		Logger:       logger,
		now:          time.Now,
	}
}

// Execute scores the lead with the model. A usable score is written to the
// lead; the parsed result, or its failure sentinel, is always appended as a
// qualification interaction. If that append fails the score write is undone.
func (uc *QualifyLeadUseCase) Execute(ctx context.Context, leadID int64) (*WorkflowOutput, error) {
	lead, err := uc.Repo.FindByID(ctx, leadID)
	if err != nil {
		return nil, storeError("find lead", err)
	}

	system, user := prompts.Qualification(leadFields(lead))

	result, err := callModel(ctx, uc.Model, workflowQualify, system, user)
	if err != nil {
		uc.Logger.Error("qualification model call failed", zap.Int64("lead_id", leadID), zap.Error(err))
		return nil, err
	}

	content, err := json.Marshal(result)
	if err != nil {
		return nil, &TechnicalError{Code: CodeModel, Message: "encode model result: " + err.Error(), Err: err}
	}

	out := &WorkflowOutput{Result: result}
	txn := NewTransaction(uc.Logger)

	if score, ok := resultScore(result, uc.Logger, leadID); ok {
		updatedAt := uc.now().UTC().Truncate(time.Microsecond)
		if updatedAt.Before(lead.UpdatedAt) {
			updatedAt = lead.UpdatedAt
		}

		txn.AddOperation("update_score", func(ctx context.Context) error {
			return uc.Repo.UpdateScore(ctx, leadID, &score, updatedAt)
		})
		txn.AddCompensation("restore_score", func(ctx context.Context) error {
			return uc.Repo.UpdateScore(ctx, leadID, lead.Score, lead.UpdatedAt)
		})
		out.Score = &score
	}

	txn.AddOperation("append_qualification", func(ctx context.Context) error {
		ia, err := uc.Interactions.Add(ctx, leadID, entity.KindQualification, string(content))
		if err != nil {
			return err
		}
		out.Interaction = ia
		return nil
	})

	if err := txn.Execute(ctx); err != nil {
		return nil, storeError("record qualification", err)
	}

	if out.Score != nil {
		metrics.RecordQualificationScore(*out.Score)
	}
	uc.Logger.Info("lead qualified",
		zap.Int64("lead_id", leadID),
		zap.Bool("parsed", result.OK()),
		zap.Bool("score_persisted", out.Score != nil),
		zap.Bool("dry_run", uc.Model.IsDryRun()),
	)
	return out, nil
}

// resultScore extracts a persistable score. Models return numbers, numeric
// strings and occasionally floats; anything else, or anything outside
// [0, 100], leaves the lead's score as it was.
func resultScore(result grok.Structured, logger *zap.Logger, leadID int64) (int, bool) {
	if !result.OK() {
		return 0, false
	}
	raw, present := result.Data["score"]
	if !present {
		logger.Warn("model result has no score", zap.Int64("lead_id", leadID))
		return 0, false
	}

	score, ok := coerceScore(raw)
	if !ok || score < 0 || score > 100 {
		logger.Warn("model score not persisted", zap.Int64("lead_id", leadID), zap.Any("score", raw))
		return 0, false
	}
	return score, true
}

func coerceScore(v any) (int, bool) {
	switch s := v.(type) {
	case json.Number:
		if n, err := s.Int64(); err == nil {
			return int(n), true
		}
		if f, err := s.Float64(); err == nil {
			return truncateFloat(f)
		}
	case float64:
		return truncateFloat(s)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func truncateFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// callModel runs one chat round trip and parses it. Only transport and status
// failures are errors; unusable output comes back as a failure sentinel.
func callModel(ctx context.Context, model ModelClient, workflow, system, user string) (grok.Structured, error) {
	start := time.Now()
	resp, err := model.Chat(ctx, system, user)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordModelCall(workflow, metrics.OutcomeError, elapsed)
		metrics.RecordIntegrationError("grok")
		return grok.Structured{}, &TechnicalError{Code: CodeModel, Message: "model call failed: " + err.Error(), Err: err}
	}

	result := grok.ParseStructured(resp)
	outcome := metrics.OutcomeOK
	if !result.OK() {
		outcome = metrics.OutcomeParseFailed
	}
	metrics.RecordModelCall(workflow, outcome, elapsed)
	return result, nil
}

func leadFields(lead *entity.Lead) prompts.LeadFields {
	return prompts.LeadFields{
		Name:     lead.Name,
		Title:    entity.Value(lead.Title),
		Company:  entity.Value(lead.Company),
		Website:  entity.Value(lead.Website),
		LinkedIn: entity.Value(lead.LinkedIn),
		Notes:    entity.Value(lead.Notes),
	}
}
