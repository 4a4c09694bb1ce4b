package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	// ListByPatient and ListByProvider optionally filter to one calendar
	// day; pass the zero time to list everything.
	ListByPatient(ctx context.Context, patientID string, day time.Time, limit, offset int) ([]*Appointment, int, error)
	ListByProvider(ctx context.Context, providerID string, day time.Time, limit, offset int) ([]*Appointment, int, error)
}
