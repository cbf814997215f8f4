package visit

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a visit listing. Substring filters are matched
// case-insensitively; the date range is inclusive on both ends.
type ListFilter struct {
	Search    string // doctor name / specialty / hospital / symptom text
	Specialty string
	DateFrom  string // YYYY-MM-DD
	DateTo    string // YYYY-MM-DD
}

// Repository defines owner-scoped persistence for visits. Every lookup
// filters by owner identity inside the query itself; a record owned by
// someone else is indistinguishable from one that does not exist.
type Repository interface {
	Create(ctx context.Context, v *Visit) error
	GetByOwner(ctx context.Context, id uuid.UUID, ownerID string) (*Visit, error)
	Update(ctx context.Context, v *Visit) error
	DeleteByOwner(ctx context.Context, id uuid.UUID, ownerID string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string, f ListFilter, limit, offset int) ([]*Visit, int, error)
}
