package usecase

import (
	"context"

	"github.com/xavierca1/leadflow/internal/infra/integration/grok"
	"github.com/xavierca1/leadflow/internal/infra/queue"
)

type ModelClient interface {
	Chat(ctx context.Context, system, user string) (*grok.ChatResponse, error)
	IsDryRun() bool
}

type OutreachDispatcher interface {
	DispatchOutreach(ctx context.Context, payload queue.OutreachPayload) error
}
