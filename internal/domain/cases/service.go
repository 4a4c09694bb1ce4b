package cases

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carepilot/carepilot/internal/domain/ingest"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validCaseTypes = map[string]bool{
	CaseTypeBillDispute: true, CaseTypeClaim: true, CaseTypeEOB: true,
}

var validStatuses = map[string]bool{
	StatusActionRequired: true, StatusInReview: true,
	StatusResolved: true, StatusClosed: true,
}

var validPriorities = map[string]bool{
	PriorityHigh: true, PriorityMedium: true, PriorityLow: true,
}

func (s *Service) CreateCase(ctx context.Context, c *Case) error {
	if c.UserID == "" {
		return fmt.Errorf("userId is required")
	}
	if c.Title == "" {
		return fmt.Errorf("title is required")
	}
	if c.CaseType == "" {
		c.CaseType = CaseTypeBillDispute
	}
	if !validCaseTypes[c.CaseType] {
		return fmt.Errorf("invalid caseType: %s", c.CaseType)
	}
	if c.Status == "" {
		c.Status = StatusInReview
	}
	if !validStatuses[c.Status] {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	if c.Priority == "" {
		c.Priority = PriorityLow
	}
	if !validPriorities[c.Priority] {
		return fmt.Errorf("invalid priority: %s", c.Priority)
	}
	if c.Source == "" {
		c.Source = SourceManual
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) GetCase(ctx context.Context, id uuid.UUID) (*Case, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateCase(ctx context.Context, c *Case) error {
	if c.Status != "" && !validStatuses[c.Status] {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	if c.Priority != "" && !validPriorities[c.Priority] {
		return fmt.Errorf("invalid priority: %s", c.Priority)
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) DeleteCase(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListCases(ctx context.Context, userID, status string, limit, offset int) ([]*Case, int, error) {
	if status != "" && !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}
	return s.repo.ListByUser(ctx, userID, status, limit, offset)
}

// UpsertEOBCase derives a tracking case from an ingested EOB record. An
// outstanding balance means the member has something to act on; the
// priority scales with the amount owed.
func (s *Service) UpsertEOBCase(ctx context.Context, rec *ingest.EOBRecord) error {
	c := deriveFromEOB(rec)
	return s.repo.UpsertByClaim(ctx, c)
}

func deriveFromEOB(rec *ingest.EOBRecord) *Case {
	status := StatusInReview
	nextStep := "No action needed - claim processed"
	if rec.AmountYouOwe > 0 {
		status = StatusActionRequired
		nextStep = "Review charges and verify against plan benefits"
	}

	priority := PriorityLow
	switch {
	case rec.AmountYouOwe > 1000:
		priority = PriorityHigh
	case rec.AmountYouOwe > 0:
		priority = PriorityMedium
	}

	claim := rec.ClaimNumber
	title := fmt.Sprintf("EOB for claim %s - %s", rec.ClaimNumber, rec.ProviderName)
	description := fmt.Sprintf("EOB for claim %s", rec.ClaimNumber)
	return &Case{
		UserID:           rec.UserID,
		Title:            title,
		CaseType:         CaseTypeEOB,
		Status:           status,
		Priority:         priority,
		Amount:           rec.AmountYouOwe,
		ClaimNumber:      &claim,
		ProviderName:     &rec.ProviderName,
		Description:      &description,
		NextStep:         &nextStep,
		Source:           SourceEOB,
		SourceDocumentID: &rec.SourceDocumentID,
	}
}
