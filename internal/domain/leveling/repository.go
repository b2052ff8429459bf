package leveling

import "context"

type Repository interface {
	Create(ctx context.Context, l *Leveling) error
	GetByID(ctx context.Context, id string) (*Leveling, error)
	ListAll(ctx context.Context) ([]*Leveling, error)
	Update(ctx context.Context, l *Leveling) error
	Delete(ctx context.Context, id string) error
}
