package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
)

// ProductHandler covers the product catalog: public browsing plus merchant
// management.
type ProductHandler struct {
	Products *repository.ProductRepo
}

type productReq struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int    `json:"stock"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (r productReq) validate() error {
	if r.Name == "" || r.Category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and category are required")
	}
	if r.PriceCents <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price_cents must be positive")
	}
	if r.Stock < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "stock must not be negative")
	}
	return nil
}

// Create adds a product to the calling merchant's shelf.
func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return err
	}
	status := req.Status
	if status == "" {
		status = model.ProductAvailable
	}
	p := &model.Product{
		MerchantID:  getUserID(c),
		Name:        req.Name,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		Unit:        req.Unit,
		Description: req.Description,
		Status:      status,
	}
	id, err := h.Products.Create(c.Request().Context(), p)
	if err != nil {
		return fail(c, err)
	}
	p.ID = id
	return c.JSON(http.StatusCreated, p)
}

// ListPublic returns on-shelf products, filterable by category.
func (h *ProductHandler) ListPublic(c echo.Context) error {
	products, err := h.Products.ListPublic(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Get returns one product.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Products.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// ListMine returns the calling merchant's whole shelf.
func (h *ProductHandler) ListMine(c echo.Context) error {
	products, err := h.Products.ListByMerchant(c.Request().Context(), getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Update edits one of the merchant's products.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return err
	}
	if req.Status == "" {
		req.Status = model.ProductAvailable
	}
	p := &model.Product{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		Unit:        req.Unit,
		Description: req.Description,
		Status:      req.Status,
	}
	if err := h.Products.Update(c.Request().Context(), getUserID(c), p); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type productStatusReq struct {
	Status string `json:"status"`
}

// SetStatus moves a product between available, sold_out and off_shelf.
func (h *ProductHandler) SetStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req productStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.Status {
	case model.ProductAvailable, model.ProductSoldOut, model.ProductOffShelf:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if err := h.Products.SetStatus(c.Request().Context(), getUserID(c), id, req.Status); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
