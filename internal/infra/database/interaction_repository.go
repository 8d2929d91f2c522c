package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
)

const interactionColumns = `id, lead_id, kind, content, created_at`

type InteractionRepository struct {
	DB  *DB
	now func() time.Time
}

func NewInteractionRepository(db *DB) *InteractionRepository {
	return &InteractionRepository{DB: db, now: time.Now}
}

// Add checks the lead and inserts the interaction in the same transaction, so
// an interaction never references a lead that was already gone.
func (r *InteractionRepository) Add(ctx context.Context, leadID int64, kind, content string) (*entity.Interaction, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, r.DB.Rebind(`SELECT 1 FROM leads WHERE id = ?`), leadID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("check lead %d: %w", leadID, err)
	}

	ia := &entity.Interaction{
		LeadID:    leadID,
		Kind:      kind,
		Content:   content,
		CreatedAt: r.now().UTC().Truncate(time.Microsecond),
	}

	query := r.DB.Rebind(`
		INSERT INTO interactions (lead_id, kind, content, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	if err := tx.QueryRowContext(ctx, query, ia.LeadID, ia.Kind, ia.Content, ia.CreatedAt).Scan(&ia.ID); err != nil {
		return nil, fmt.Errorf("insert interaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ia, nil
}

// ListByLead returns the lead's interactions newest first.
func (r *InteractionRepository) ListByLead(ctx context.Context, leadID int64) ([]*entity.Interaction, error) {
	query := r.DB.Rebind(`SELECT ` + interactionColumns + ` FROM interactions WHERE lead_id = ? ORDER BY created_at DESC, id DESC`)

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	interactions := []*entity.Interaction{}
	for rows.Next() {
		ia, err := scanInteraction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		interactions = append(interactions, ia)
	}
	return interactions, rows.Err()
}

func (r *InteractionRepository) Latest(ctx context.Context, leadID int64, kind string) (*entity.Interaction, error) {
	query := r.DB.Rebind(`
		SELECT ` + interactionColumns + ` FROM interactions
		WHERE lead_id = ? AND kind = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`)

	ia, err := scanInteraction(r.DB.QueryRowContext(ctx, query, leadID, kind))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest %s interaction: %w", kind, err)
	}
	return ia, nil
}

func (r *InteractionRepository) FindByID(ctx context.Context, id int64) (*entity.Interaction, error) {
	query := r.DB.Rebind(`SELECT ` + interactionColumns + ` FROM interactions WHERE id = ?`)

	ia, err := scanInteraction(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrInteractionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find interaction %d: %w", id, err)
	}
	return ia, nil
}

func scanInteraction(row rowScanner) (*entity.Interaction, error) {
	var ia entity.Interaction
	if err := row.Scan(&ia.ID, &ia.LeadID, &ia.Kind, &ia.Content, &ia.CreatedAt); err != nil {
		return nil, err
	}
	ia.CreatedAt = ia.CreatedAt.UTC()
	return &ia, nil
}
