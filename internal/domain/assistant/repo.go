package assistant

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists consultation sessions. All reads are owner scoped; a
// session belonging to another user is indistinguishable from a missing one.
type Repository interface {
	Create(ctx context.Context, s *Consultation) error
	GetByOwner(ctx context.Context, id uuid.UUID, ownerID string) (*Consultation, error)
	Update(ctx context.Context, s *Consultation) error
	ListSummaries(ctx context.Context, ownerID string) ([]*SessionSummaryItem, error)
}
