package labs

import "context"

// Repository reads lab reports persisted by the ingestion pipeline.
type Repository interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*LabReport, int, error)
	// ListAllByUser returns every report for cross-report aggregation
	// (distinct parameters, time series), ordered by report date.
	ListAllByUser(ctx context.Context, userID string) ([]*LabReport, error)
	GetByDocID(ctx context.Context, userID, docID string) (*LabReport, error)
}
