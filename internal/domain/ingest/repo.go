package ingest

import (
	"context"

	"github.com/google/uuid"
)

// Repository upserts extracted records keyed by their natural business
// keys, so re-ingesting the same logical document updates in place.
type Repository interface {
	// UpsertInsuranceBenefits keys on (plan_name, policy_number, user_id).
	UpsertInsuranceBenefits(ctx context.Context, rec *BenefitsRecord) (uuid.UUID, error)
	// UpsertLabReport keys on (user_id, source_document_id).
	UpsertLabReport(ctx context.Context, rec *LabReportRecord) (uuid.UUID, error)
	// UpsertEOBRecord keys on (claim_number, user_id).
	UpsertEOBRecord(ctx context.Context, rec *EOBRecord) (uuid.UUID, error)
	// RunInTx runs fn inside a single database transaction; repository
	// calls made with the context fn receives join that transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CaseSink receives ingested EOB records so a tracking case can be derived
// from them. Implemented by the cases service; failures here are logged by
// the caller and never surfaced to the client.
type CaseSink interface {
	UpsertEOBCase(ctx context.Context, rec *EOBRecord) error
}
