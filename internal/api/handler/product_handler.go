package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/acmecorp/identity-service/internal/core/domain"
	"github.com/acmecorp/identity-service/internal/core/ports"
)

// ProductHandler handles HTTP requests for product CRUD.
type ProductHandler struct {
	productService ports.ProductService
}

func NewProductHandler(productService ports.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// List returns all products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response[[]domain.Product]
// @Router       /api/v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	res, err := h.productService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// Get returns one product by id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  Response[domain.Product]
// @Failure      404  {object}  Response[any]
// @Router       /api/v1/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	res, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// Create adds a new product.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product details"
// @Success      201   {object}  Response[domain.Product]
// @Failure      422   {object}  Response[any]
// @Router       /api/v1/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return domain.BadRequest("invalid request payload")
	}

	res, err := h.productService.Create(c.Request().Context(), productInput(req))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, res)
}

// Update replaces the writable fields of a product.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Product ID"
// @Param        body  body      productRequest  true  "Product details"
// @Success      200   {object}  Response[domain.Product]
// @Failure      404   {object}  Response[any]
// @Failure      422   {object}  Response[any]
// @Router       /api/v1/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return domain.BadRequest("invalid request payload")
	}

	res, err := h.productService.Update(c.Request().Context(), id, productInput(req))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

// Delete removes a product.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  Response[any]
// @Failure      403  {object}  Response[any]
// @Failure      404  {object}  Response[any]
// @Router       /api/v1/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	res, err := h.productService.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, res)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.BadRequest("id must be a positive integer")
	}
	return id, nil
}

func productInput(req productRequest) ports.ProductInput {
	return ports.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
}
