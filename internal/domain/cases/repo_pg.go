package cases

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepilot/carepilot/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const caseCols = `id, user_id, title, case_type, status, priority, amount,
	claim_number, provider_name, description, next_step, source,
	source_document_id, created_at, updated_at`

func scanCase(row pgx.Row) (*Case, error) {
	var c Case
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.CaseType, &c.Status, &c.Priority,
		&c.Amount, &c.ClaimNumber, &c.ProviderName, &c.Description, &c.NextStep,
		&c.Source, &c.SourceDocumentID, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Case) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO cases (id, user_id, title, case_type, status, priority, amount,
			claim_number, provider_name, description, next_step, source, source_document_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		c.ID, c.UserID, c.Title, c.CaseType, c.Status, c.Priority, c.Amount,
		c.ClaimNumber, c.ProviderName, c.Description, c.NextStep, c.Source, c.SourceDocumentID)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Case, error) {
	return scanCase(r.conn(ctx).QueryRow(ctx, `SELECT `+caseCols+` FROM cases WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, c *Case) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE cases SET title=$2, case_type=$3, status=$4, priority=$5, amount=$6,
			claim_number=$7, provider_name=$8, description=$9, next_step=$10, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Title, c.CaseType, c.Status, c.Priority, c.Amount,
		c.ClaimNumber, c.ProviderName, c.Description, c.NextStep)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM cases WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]*Case, int, error) {
	where := `WHERE user_id = $1`
	args := []interface{}{userID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM cases `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + caseCols + ` FROM cases ` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *repoPG) UpsertByClaim(ctx context.Context, c *Case) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO cases (id, user_id, title, case_type, status, priority, amount,
			claim_number, provider_name, description, next_step, source, source_document_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (claim_number, user_id) DO UPDATE SET
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			amount = EXCLUDED.amount,
			provider_name = EXCLUDED.provider_name,
			description = EXCLUDED.description,
			next_step = EXCLUDED.next_step,
			source_document_id = EXCLUDED.source_document_id,
			updated_at = NOW()`,
		c.ID, c.UserID, c.Title, c.CaseType, c.Status, c.Priority, c.Amount,
		c.ClaimNumber, c.ProviderName, c.Description, c.NextStep, c.Source, c.SourceDocumentID)
	return err
}
