package education

import "context"

// Repository defines the operations for persisting and retrieving Education entities.
type Repository interface {
	Create(ctx context.Context, e *Education) error
	GetByID(ctx context.Context, id string) (*Education, error)
	ListAll(ctx context.Context) ([]*Education, error)
	Update(ctx context.Context, e *Education) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
