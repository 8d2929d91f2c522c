package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/config"
	"github.com/xavierca1/leadflow/internal/eval"
	"github.com/xavierca1/leadflow/internal/infra/database"
	"github.com/xavierca1/leadflow/internal/infra/http/handlers"
	"github.com/xavierca1/leadflow/internal/infra/http/router"
	"github.com/xavierca1/leadflow/internal/infra/integration/grok"
	"github.com/xavierca1/leadflow/internal/infra/mail"
	"github.com/xavierca1/leadflow/internal/infra/queue"
	"github.com/xavierca1/leadflow/internal/prompts"
	"github.com/xavierca1/leadflow/internal/usecase"
)

// app holds everything a command needs, built once from config.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	db     *database.DB
	rabbit *queue.RabbitMQ
	model  *grok.Client
	mailer *mail.EmailSender

	leads        *database.LeadRepository
	interactions *database.InteractionRepository
	dispatch     string

	createLead *usecase.CreateLeadUseCase
	qualify    *usecase.QualifyLeadUseCase
	outreach   *usecase.GenerateOutreachUseCase
	send       *usecase.SendOutreachUseCase
	export     *usecase.ExportLeadsCSVUseCase
	clear      *usecase.ClearAllDataUseCase
	workflow   *eval.LeadWorkflow
}

// newApp opens the store and wires use cases. The broker is dialed only when
// AMQP_URL is set; otherwise approved outreach is mailed inline.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	db, err := database.NewDBConnection(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}

	a := &app{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		leads:        database.NewLeadRepository(db),
		interactions: database.NewInteractionRepository(db),
		mailer:       mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom),
		model: grok.NewClient(grok.Config{
			APIKey:  cfg.GrokAPIKey,
			BaseURL: cfg.GrokAPIURL,
			Model:   cfg.GrokModel,
			Timeout: cfg.GrokTimeout,
		}, logger.Named("grok")),
	}

	var dispatcher usecase.OutreachDispatcher
	if cfg.AMQPURL != "" {
		a.rabbit, err = queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			db.Close()
			return nil, err
		}
		dispatcher = queue.NewProducer(a.rabbit.Ch)
		a.dispatch = "rabbitmq"
	} else {
		dispatcher = queue.NewDirectDispatcher(a.mailer)
		a.dispatch = "direct"
	}

	a.createLead = usecase.NewCreateLeadUseCase(a.leads, logger)
	a.qualify = usecase.NewQualifyLeadUseCase(a.leads, a.interactions, a.model, logger)
	a.outreach = usecase.NewGenerateOutreachUseCase(a.leads, a.interactions, a.model, logger)
	a.send = usecase.NewSendOutreachUseCase(a.leads, a.interactions, dispatcher, logger)
	a.export = usecase.NewExportLeadsCSVUseCase(a.leads)
	a.clear = usecase.NewClearAllDataUseCase(a.leads, logger)
	a.workflow = eval.NewLeadWorkflow(a.leads, a.qualify, a.outreach, a.model.IsDryRun(), logger.Named("eval"))

	logger.Info("app ready",
		zap.String("db_driver", db.Driver),
		zap.String("dispatch", a.dispatch),
		zap.Bool("dry_run", a.model.IsDryRun()),
		zap.String("model", a.model.Model()),
	)
	return a, nil
}

func (a *app) router() http.Handler {
	var broker handlers.BrokerStatus
	if a.rabbit != nil {
		broker = a.rabbit
	}

	h := router.Handlers{
		Health: handlers.NewHealthHandler(a.db, broker, a.model.IsDryRun(), version),
		Settings: handlers.NewSettingsHandler(handlers.Settings{
			DryRun:   a.model.IsDryRun(),
			Model:    a.model.Model(),
			DBDriver: a.db.Driver,
			Dispatch: a.dispatch,
			Channels: prompts.Channels,
			Tones:    prompts.Tones,
		}),
		Leads: &handlers.LeadHandler{
			CreateUC:       a.createLead,
			ListUC:         usecase.NewListLeadsUseCase(a.leads),
			GetUC:          usecase.NewGetLeadUseCase(a.leads, a.interactions),
			DeleteUC:       usecase.NewDeleteLeadUseCase(a.leads, a.logger),
			ClearUC:        a.clear,
			InteractionsUC: usecase.NewListInteractionsUseCase(a.leads, a.interactions),
			AddNoteUC:      usecase.NewAddNoteUseCase(a.interactions, a.logger),
			ExportUC:       a.export,
			Logger:         a.logger,
		},
		Workflows: &handlers.WorkflowHandler{
			QualifyUC:  a.qualify,
			OutreachUC: a.outreach,
			SendUC:     a.send,
			Logger:     a.logger,
		},
		Validation: handlers.NewValidationHandler(),
		Evals:      handlers.NewEvalHandler(a.workflow, a.logger),
	}
	return router.New(h, a.cfg.CORSOrigins, a.logger)
}

func (a *app) Close() error {
	if a.rabbit != nil {
		if err := a.rabbit.Close(); err != nil {
			a.logger.Warn("close rabbitmq", zap.Error(err))
		}
	}
	return a.db.Close()
}
