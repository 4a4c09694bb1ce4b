package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultDurationMinutes = 30

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

var validStatuses = map[string]bool{
	StatusRequested: true, StatusConfirmed: true,
	StatusCompleted: true, StatusCancelled: true,
}

// Book validates and creates an appointment. New bookings must be in the
// future and start as requested or confirmed.
func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if a.PatientID == "" {
		return fmt.Errorf("patientId is required")
	}
	if a.ProviderID == "" {
		return fmt.Errorf("providerId is required")
	}
	if a.ProviderName == "" {
		return fmt.Errorf("providerName is required")
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduledAt is required")
	}
	if !a.ScheduledAt.After(s.now()) {
		return fmt.Errorf("scheduledAt must be in the future")
	}
	if a.Status == "" {
		a.Status = StatusRequested
	}
	if a.Status != StatusRequested && a.Status != StatusConfirmed {
		return fmt.Errorf("invalid status for a new appointment: %s", a.Status)
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = defaultDurationMinutes
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	if a.Status != "" && !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return s.repo.Update(ctx, a)
}

// Cancel marks an appointment cancelled. Completed visits stay completed.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusCompleted {
		return nil, fmt.Errorf("cannot cancel a completed appointment")
	}
	a.Status = StatusCancelled
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, day, limit, offset)
}

func (s *Service) ListByProvider(ctx context.Context, providerID string, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByProvider(ctx, providerID, day, limit, offset)
}
