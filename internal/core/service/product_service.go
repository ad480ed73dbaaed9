package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/acmecorp/identity-service/internal/core/domain"
	"github.com/acmecorp/identity-service/internal/core/ports"
)

// ProductService is thin CRUD orchestration over the unit of work. It exists
// as the non-auth consumer of the Result and transaction contracts.
type ProductService struct {
	uow      ports.UnitOfWorkFactory
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

func NewProductService(uow ports.UnitOfWorkFactory, log zerolog.Logger) *ProductService {
	return &ProductService{uow: uow, validate: validator.New(), log: log, now: time.Now}
}

// List returns all products. Infrastructure failures here come back on the
// Result channel: a listing that cannot be served is a routine negative
// outcome for the caller, not an exceptional one.
func (s *ProductService) List(ctx context.Context) (domain.Result[[]*domain.Product], error) {
	uow, err := s.uow.New(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list products")
		return domain.Fail[[]*domain.Product]("failed to retrieve products"), nil
	}
	defer uow.Close(ctx)

	products, err := uow.Products().GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list products")
		return domain.Fail[[]*domain.Product]("failed to retrieve products"), nil
	}
	return domain.OKMsg(products, fmt.Sprintf("retrieved %d products", len(products))), nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (domain.Result[*domain.Product], error) {
	var zero domain.Result[*domain.Product]

	uow, err := s.uow.New(ctx)
	if err != nil {
		return zero, err
	}
	defer uow.Close(ctx)

	product, err := uow.Products().GetByID(ctx, id)
	if err != nil {
		return zero, err
	}
	return domain.OK(product), nil
}

func (s *ProductService) Create(ctx context.Context, in ports.ProductInput) (domain.Result[*domain.Product], error) {
	var zero domain.Result[*domain.Product]

	if err := s.validateInput(in); err != nil {
		return zero, err
	}

	uow, err := s.uow.New(ctx)
	if err != nil {
		return zero, err
	}
	defer uow.Close(ctx)

	if err := uow.Begin(ctx); err != nil {
		return zero, err
	}

	product := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CreatedAt:   s.now().UTC(),
	}
	if err := uow.Products().Create(ctx, product); err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}
	if err := uow.Commit(ctx); err != nil {
		return zero, err
	}

	s.log.Info().Int64("product_id", product.ID).Msg("product created")
	return domain.OKMsg(product, "product created successfully"), nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in ports.ProductInput) (domain.Result[*domain.Product], error) {
	var zero domain.Result[*domain.Product]

	if err := s.validateInput(in); err != nil {
		return zero, err
	}

	uow, err := s.uow.New(ctx)
	if err != nil {
		return zero, err
	}
	defer uow.Close(ctx)

	product, err := uow.Products().GetByID(ctx, id)
	if err != nil {
		return zero, err
	}

	if err := uow.Begin(ctx); err != nil {
		return zero, err
	}

	now := s.now().UTC()
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	product.UpdatedAt = &now
	if err := uow.Products().Update(ctx, product); err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}
	if err := uow.Commit(ctx); err != nil {
		return zero, err
	}

	return domain.OKMsg(product, "product updated successfully"), nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) (domain.Result[any], error) {
	var zero domain.Result[any]

	uow, err := s.uow.New(ctx)
	if err != nil {
		return zero, err
	}
	defer uow.Close(ctx)

	exists, err := uow.Products().Exists(ctx, id)
	if err != nil {
		return zero, err
	}
	if !exists {
		return zero, domain.NotFound("product", id)
	}

	if err := uow.Begin(ctx); err != nil {
		return zero, err
	}
	if err := uow.Products().Delete(ctx, id); err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}
	if err := uow.Commit(ctx); err != nil {
		return zero, err
	}

	return domain.OKMsg[any](nil, "product deleted successfully"), nil
}

// validateInput collects every violation before raising one Validation fault.
func (s *ProductService) validateInput(in ports.ProductInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, productFieldError(fe))
		}
		return domain.Validation(msgs)
	}
	return err
}

func productFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
