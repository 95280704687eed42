package products

import (
	"context"

	"github.com/dmitrijs2005/biscotto/internal/server/models"
)

// Repository is the catalog store.
type Repository interface {
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, pattern string) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) (*models.Product, error)
}
