package usecase

import (
	"github.com/xavierca1/leadflow/internal/entity"
	"github.com/xavierca1/leadflow/internal/infra/integration/grok"
)

type CreateLeadInput struct {
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Company  string `json:"company" yaml:"company"`
	Title    string `json:"title" yaml:"title"`
	Website  string `json:"website" yaml:"website"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
	Notes    string `json:"notes" yaml:"notes"`
}

type GenerateOutreachInput struct {
	LeadID    int64  `json:"-"`
	Channel   string `json:"channel"`
	Tone      string `json:"tone"`
	ValueProp string `json:"value_prop"`
}

const (
	DefaultChannel   = "email"
	DefaultTone      = "professional"
	DefaultValueProp = "Automate SDR tasks with Grok-powered workflows."
)

type AddNoteInput struct {
	LeadID int64  `json:"-"`
	Text   string `json:"text"`
}

type SendOutreachInput struct {
	LeadID        int64
	InteractionID int64
}

// WorkflowOutput is what QualifyLead and GenerateOutreach hand back: the parsed
// model result (or its failure sentinel) and the interaction that recorded it.
type WorkflowOutput struct {
	Result      grok.Structured     `json:"result"`
	Interaction *entity.Interaction `json:"interaction"`
	// Score is set only when qualification persisted a new score.
	Score *int `json:"score,omitempty"`
}

type SendOutreachOutput struct {
	MessageID string              `json:"message_id"`
	To        string              `json:"to"`
	Subject   string              `json:"subject"`
	Note      *entity.Interaction `json:"note"`
}

type LeadDetailOutput struct {
	Lead         *entity.Lead          `json:"lead"`
	Interactions []*entity.Interaction `json:"interactions"`
}
