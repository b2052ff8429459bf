package structure

import "context"

// Repository defines the operations for persisting and retrieving Assignment entities.
type Repository interface {
	Create(ctx context.Context, a *Assignment) error
	GetByID(ctx context.Context, id string) (*Assignment, error)
	ListAll(ctx context.Context) ([]*Assignment, error)
	Update(ctx context.Context, a *Assignment) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
