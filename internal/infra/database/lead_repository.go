package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
)

const leadColumns = `id, name, email, company, title, website, linkedin, notes, score, stage, created_at, updated_at`

type LeadRepository struct {
	DB *DB
}

func NewLeadRepository(db *DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := r.DB.Rebind(`
		INSERT INTO leads (name, email, company, title, website, linkedin, notes, score, stage, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := r.DB.QueryRowContext(ctx, query,
		lead.Name,
		lead.Email,
		lead.Company,
		lead.Title,
		lead.Website,
		lead.LinkedIn,
		lead.Notes,
		lead.Score,
		lead.Stage,
		lead.CreatedAt.UTC(),
		lead.UpdatedAt.UTC(),
	).Scan(&lead.ID)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}

	return nil
}

// List returns leads newest first.
func (r *LeadRepository) List(ctx context.Context) ([]*entity.Lead, error) {
	return r.query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC, id DESC`)
}

// ListByID returns leads in insertion order, used by the CSV export.
func (r *LeadRepository) ListByID(ctx context.Context) ([]*entity.Lead, error) {
	return r.query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY id ASC`)
}

func (r *LeadRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, r.DB.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	query := r.DB.Rebind(`SELECT ` + leadColumns + ` FROM leads WHERE id = ?`)

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead %d: %w", id, err)
	}
	return lead, nil
}

func (r *LeadRepository) UpdateScore(ctx context.Context, id int64, score *int, updatedAt time.Time) error {
	query := r.DB.Rebind(`UPDATE leads SET score = ?, updated_at = ? WHERE id = ?`)

	res, err := r.DB.ExecContext(ctx, query, score, updatedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}
	return expectOneRow(res, entity.ErrLeadNotFound)
}

// Delete removes the lead and its interactions in one transaction.
func (r *LeadRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.DB.Rebind(`DELETE FROM interactions WHERE lead_id = ?`), id); err != nil {
		return fmt.Errorf("delete interactions: %w", err)
	}

	res, err := tx.ExecContext(ctx, r.DB.Rebind(`DELETE FROM leads WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if err := expectOneRow(res, entity.ErrLeadNotFound); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteAll clears both tables, interactions first.
func (r *LeadRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM interactions`); err != nil {
		return fmt.Errorf("clear interactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM leads`); err != nil {
		return fmt.Errorf("clear leads: %w", err)
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		lead                                            entity.Lead
		email, company, title, website, linkedin, notes sql.NullString
		score                                           sql.NullInt64
	)

	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&email,
		&company,
		&title,
		&website,
		&linkedin,
		&notes,
		&score,
		&lead.Stage,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Email = nullString(email)
	lead.Company = nullString(company)
	lead.Title = nullString(title)
	lead.Website = nullString(website)
	lead.LinkedIn = nullString(linkedin)
	lead.Notes = nullString(notes)
	if score.Valid {
		s := int(score.Int64)
		lead.Score = &s
	}
	lead.CreatedAt = lead.CreatedAt.UTC()
	lead.UpdatedAt = lead.UpdatedAt.UTC()

	return &lead, nil
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
