package eval

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/integration/grok"
	"github.com/xavierca1/leadflow/internal/usecase"
)

type Output struct {
	LeadID        int64           `json:"lead_id"`
	Qualification grok.Structured `json:"qualification"`
	Message       grok.Structured `json:"message"`
}

type Report struct {
	RunID     string                `json:"run_id"`
	StartedAt time.Time             `json:"started_at"`
	DryRun    bool                  `json:"dry_run"`
	Suite     *Suite                `json:"suite"`
	Rows      []Row[Sample, Output] `json:"rows"`
}

// LeadWorkflow stores each sample as a new lead, qualifies it and drafts an
// outreach message for it. Samples skip the add-lead form rules, so they need
// no email address.
type LeadWorkflow struct {
	Leads    entity.LeadRepositoryInterface
	Qualify  *usecase.QualifyLeadUseCase
	Outreach *usecase.GenerateOutreachUseCase
	DryRun   bool
	Logger   *zap.Logger
}

func NewLeadWorkflow(
	leads entity.LeadRepositoryInterface,
	qualify *usecase.QualifyLeadUseCase,
	outreach *usecase.GenerateOutreachUseCase,
	dryRun bool,
	logger *zap.Logger,
) *LeadWorkflow {
	return &LeadWorkflow{
		Leads:    leads,
		Qualify:  qualify,
		Outreach: outreach,
		DryRun:   dryRun,
		Logger:   logger,
	}
}

func (w *LeadWorkflow) Run(ctx context.Context, suite *Suite) *Report {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		DryRun:    w.DryRun,
		Suite:     suite,
	}

	log := w.Logger.With(zap.String("run_id", report.RunID))
	log.Info("eval started", zap.Int("samples", len(suite.Samples)), zap.Bool("dry_run", w.DryRun))

	report.Rows = RunTable(ctx, suite.Samples, func(ctx context.Context, s Sample) (Output, error) {
		return w.one(ctx, suite, s)
	})

	for _, row := range report.Rows {
		log.Info("eval sample finished",
			zap.Int("idx", row.Idx),
			zap.String("name", row.Input.Name),
			zap.Float64("latency_s", row.LatencySeconds),
			zap.String("error", row.Error),
		)
	}
	return report
}

func (w *LeadWorkflow) one(ctx context.Context, suite *Suite, s Sample) (Output, error) {
	in := s.leadInput()
	lead, err := entity.NewLead(in.Name, in.Email, in.Company, in.Title, in.Website, in.LinkedIn, in.Notes, time.Now())
	if err != nil {
		return Output{}, err
	}
	if err := w.Leads.Create(ctx, lead); err != nil {
		return Output{}, err
	}

	out := Output{LeadID: lead.ID}

	q, err := w.Qualify.Execute(ctx, lead.ID)
	if err != nil {
		return out, err
	}
	out.Qualification = q.Result

	m, err := w.Outreach.Execute(ctx, usecase.GenerateOutreachInput{
		LeadID:    lead.ID,
		Channel:   suite.Channel,
		Tone:      suite.Tone,
		ValueProp: suite.ValueProp,
	})
	if err != nil {
		return out, err
	}
	out.Message = m.Result
	return out, nil
}
