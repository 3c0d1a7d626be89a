package pool

import "context"

type Repository interface {
	Create(ctx context.Context, p *Pool) error
	GetByAsset(ctx context.Context, asset string) (*Pool, error)
	GetByAssetForUpdate(ctx context.Context, asset string) (*Pool, error)
	Save(ctx context.Context, p *Pool) error
	List(ctx context.Context) ([]Pool, error)
}
