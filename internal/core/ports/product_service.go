package ports

import (
	"context"

	"github.com/acmecorp/identity-service/internal/core/domain"
)

// ProductInput carries the writable fields of a product. Validation tags are
// enforced by the product service before any persistence happens.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=500"`
	Price       float64 `json:"price" validate:"required,gt=0,lt=1000000"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// ProductService is thin CRUD orchestration over the unit of work.
type ProductService interface {
	List(ctx context.Context) (domain.Result[[]*domain.Product], error)
	Get(ctx context.Context, id int64) (domain.Result[*domain.Product], error)
	Create(ctx context.Context, in ProductInput) (domain.Result[*domain.Product], error)
	Update(ctx context.Context, id int64, in ProductInput) (domain.Result[*domain.Product], error)
	Delete(ctx context.Context, id int64) (domain.Result[any], error)
}
