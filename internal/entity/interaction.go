package entity

import (
	"context"
	"errors"
	"time"
)

var ErrInteractionNotFound = errors.New("interaction not found")

const (
	KindQualification = "qualification"
	KindOutreach      = "outreach"
	KindNote          = "note"
)

// Interaction is an append-only event in a lead's history. Content is opaque to
// the store; the use cases write JSON into it.
type Interaction struct {
	ID        int64     `json:"id"`
	LeadID    int64     `json:"lead_id"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type InteractionRepositoryInterface interface {
	// Add fails with ErrLeadNotFound when the lead does not exist.
	Add(ctx context.Context, leadID int64, kind, content string) (*Interaction, error)
	ListByLead(ctx context.Context, leadID int64) ([]*Interaction, error)
	// Latest returns nil, nil when the lead has no interaction of that kind.
	Latest(ctx context.Context, leadID int64, kind string) (*Interaction, error)
	FindByID(ctx context.Context, id int64) (*Interaction, error)
}
