package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment is a booked or requested visit between a patient and a
// provider. Cancellation is a status change, never a row delete, so the
// history stays visible to both sides.
type Appointment struct {
	ID              uuid.UUID `json:"id"`
	PatientID       string    `json:"patientId"`
	ProviderID      string    `json:"providerId"`
	ProviderName    string    `json:"providerName"`
	Specialty       *string   `json:"specialty,omitempty"`
	Status          string    `json:"status"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Reason          *string   `json:"reason,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

const (
	StatusRequested = "requested"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)
