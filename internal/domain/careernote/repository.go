package careernote

import "context"

type Repository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id string) (*Note, error)
	ListAll(ctx context.Context) ([]*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id string) error
}
