package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/acmecorp/identity-service/internal/core/domain"
	"github.com/acmecorp/identity-service/internal/core/ports"
)

type stubProductService struct {
	listFn   func(ctx context.Context) (domain.Result[[]*domain.Product], error)
	getFn    func(ctx context.Context, id int64) (domain.Result[*domain.Product], error)
	createFn func(ctx context.Context, in ports.ProductInput) (domain.Result[*domain.Product], error)
	updateFn func(ctx context.Context, id int64, in ports.ProductInput) (domain.Result[*domain.Product], error)
	deleteFn func(ctx context.Context, id int64) (domain.Result[any], error)
}

func (s *stubProductService) List(ctx context.Context) (domain.Result[[]*domain.Product], error) {
	return s.listFn(ctx)
}

func (s *stubProductService) Get(ctx context.Context, id int64) (domain.Result[*domain.Product], error) {
	return s.getFn(ctx, id)
}

func (s *stubProductService) Create(ctx context.Context, in ports.ProductInput) (domain.Result[*domain.Product], error) {
	return s.createFn(ctx, in)
}

func (s *stubProductService) Update(ctx context.Context, id int64, in ports.ProductInput) (domain.Result[*domain.Product], error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubProductService) Delete(ctx context.Context, id int64) (domain.Result[any], error) {
	return s.deleteFn(ctx, id)
}

func TestProductHandler_List(t *testing.T) {
	e := echo.New()
	stub := &stubProductService{
		listFn: func(context.Context) (domain.Result[[]*domain.Product], error) {
			return domain.OKMsg([]*domain.Product{{ID: 1, Name: "Widget"}}, "retrieved 1 products"), nil
		},
	}
	h := NewProductHandler(stub)

	c, rec := newTestContext(e, http.MethodGet, "/api/v1/products", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, ok := resp["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("data = %+v", resp["data"])
	}
}

func TestProductHandler_Get_BadID(t *testing.T) {
	e := echo.New()
	h := NewProductHandler(&stubProductService{})

	c, _ := newTestContext(e, http.MethodGet, "/api/v1/products/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.Get(c)
	f, ok := domain.AsFault(err)
	if !ok || f.Kind != domain.KindBadRequest {
		t.Fatalf("expected bad request fault, got %v", err)
	}
}

func TestProductHandler_Create(t *testing.T) {
	e := echo.New()
	stub := &stubProductService{
		createFn: func(_ context.Context, in ports.ProductInput) (domain.Result[*domain.Product], error) {
			if in.Name != "Widget" || in.Price != 19.99 {
				t.Fatalf("input = %+v", in)
			}
			return domain.OKMsg(&domain.Product{ID: 1, Name: in.Name, Price: in.Price}, "product created successfully"), nil
		},
	}
	h := NewProductHandler(stub)

	c, rec := newTestContext(e, http.MethodPost, "/api/v1/products",
		`{"name":"Widget","price":19.99,"stock":10}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestProductHandler_Delete_FaultPassesThrough(t *testing.T) {
	e := echo.New()
	stub := &stubProductService{
		deleteFn: func(_ context.Context, id int64) (domain.Result[any], error) {
			return domain.Result[any]{}, domain.NotFound("product", id)
		},
	}
	h := NewProductHandler(stub)

	c, _ := newTestContext(e, http.MethodDelete, "/api/v1/products/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.Delete(c)
	f, ok := domain.AsFault(err)
	if !ok || f.Kind != domain.KindNotFound {
		t.Fatalf("expected not found fault, got %v", err)
	}
}
