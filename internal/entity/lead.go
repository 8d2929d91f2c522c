package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrLeadNotFound = errors.New("lead not found")

const StageNew = "new"

type Lead struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Company   *string   `json:"company,omitempty"`
	Title     *string   `json:"title,omitempty"`
	Website   *string   `json:"website,omitempty"`
	LinkedIn  *string   `json:"linkedin,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Score     *int      `json:"score,omitempty"`
	Stage     string    `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLead builds an unsaved lead. Blank optional fields become nil so they are
// persisted as NULL rather than as empty strings.
func NewLead(name, email, company, title, website, linkedin, notes string, now time.Time) (*Lead, error) {
	lead := &Lead{
		Name:      strings.TrimSpace(name),
		Email:     Optional(email),
		Company:   Optional(company),
		Title:     Optional(title),
		Website:   Optional(website),
		LinkedIn:  Optional(linkedin),
		Notes:     Optional(notes),
		Stage:     StageNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Stage == "" {
		return errors.New("stage is required")
	}
	return nil
}

// Value returns the dereferenced optional field, or "" when it is unset.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Optional maps a blank or whitespace-only value to nil. Anything else is kept
// exactly as given.
func Optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	List(ctx context.Context) ([]*Lead, error)
	ListByID(ctx context.Context) ([]*Lead, error)
	FindByID(ctx context.Context, id int64) (*Lead, error)
	UpdateScore(ctx context.Context, id int64, score *int, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}
