package cases

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*Case, error)
	Update(ctx context.Context, c *Case) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]*Case, int, error)
	// UpsertByClaim keys on (claim_number, user_id) so re-ingesting the
	// same EOB updates the derived case in place.
	UpsertByClaim(ctx context.Context, c *Case) error
}
