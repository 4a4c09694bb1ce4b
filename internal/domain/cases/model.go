package cases

import (
	"time"

	"github.com/google/uuid"
)

// Case is a tracked billing/claims item: either entered manually or
// derived automatically from an ingested EOB.
type Case struct {
	ID               uuid.UUID `json:"id"`
	UserID           string    `json:"userId"`
	Title            string    `json:"title"`
	CaseType         string    `json:"caseType"`
	Status           string    `json:"status"`
	Priority         string    `json:"priority"`
	Amount           float64   `json:"amount"`
	ClaimNumber      *string   `json:"claimNumber,omitempty"`
	ProviderName     *string   `json:"providerName,omitempty"`
	Description      *string   `json:"description,omitempty"`
	NextStep         *string   `json:"nextStep,omitempty"`
	Source           string    `json:"source"`
	SourceDocumentID *string   `json:"sourceDocumentId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

const (
	CaseTypeBillDispute = "bill_dispute"
	CaseTypeClaim       = "claim"
	CaseTypeEOB         = "eob"

	StatusActionRequired = "action_required"
	StatusInReview       = "in_review"
	StatusResolved       = "resolved"
	StatusClosed         = "closed"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	SourceManual = "manual"
	SourceEOB    = "eob"
)
