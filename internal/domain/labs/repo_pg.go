package labs

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
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

const labReportCols = `id, user_id, title, report_date, hospital, doctor,
	parameters, source_document_id, extracted_date`

func scanLabReport(row pgx.Row) (*LabReport, error) {
	var rep LabReport
	var reportDate pgtype.Date
	err := row.Scan(&rep.ID, &rep.UserID, &rep.Title, &reportDate,
		&rep.Hospital, &rep.Doctor, &rep.Parameters,
		&rep.SourceDocumentID, &rep.ExtractedDate)
	if err != nil {
		return nil, err
	}
	rep.ReportDate = dateString(reportDate)
	return &rep, nil
}

// dateString converts a scanned DATE column to the YYYY-MM-DD string form
// the rest of the package works with. DATE columns arrive as pgtype.Date
// (pgx has no direct date-to-string scan path), so the conversion lives
// here at the scan boundary.
func dateString(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	s := d.Time.Format("2006-01-02")
	return &s
}

func (r *repoPG) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*LabReport, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM lab_reports WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+labReportCols+` FROM lab_reports
		WHERE user_id = $1
		ORDER BY report_date DESC NULLS LAST, extracted_date DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*LabReport
	for rows.Next() {
		rep, err := scanLabReport(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rep)
	}
	return items, total, nil
}

func (r *repoPG) ListAllByUser(ctx context.Context, userID string) ([]*LabReport, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+labReportCols+` FROM lab_reports
		WHERE user_id = $1
		ORDER BY report_date ASC NULLS LAST`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*LabReport
	for rows.Next() {
		rep, err := scanLabReport(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rep)
	}
	return items, nil
}

func (r *repoPG) GetByDocID(ctx context.Context, userID, docID string) (*LabReport, error) {
	return scanLabReport(r.conn(ctx).QueryRow(ctx,
		`SELECT `+labReportCols+` FROM lab_reports WHERE user_id = $1 AND source_document_id = $2`,
		userID, docID))
}
