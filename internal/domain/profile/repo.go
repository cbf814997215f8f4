package profile

import "context"

// Repository persists user profiles keyed by the auth provider's subject.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
}
