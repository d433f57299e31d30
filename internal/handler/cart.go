package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
)

// CartHandler covers the shopping cart.
type CartHandler struct {
	Cart     *repository.CartRepo
	Products *repository.ProductRepo
}

type cartAddReq struct {
	ProductID uint64 `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Add puts qty units of a product into the cart, accumulating with any
// existing line.
func (h *CartHandler) Add(c echo.Context) error {
	var req cartAddReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductID == 0 || req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and a positive quantity are required"})
	}
	p, err := h.Products.GetByID(c.Request().Context(), req.ProductID)
	if err != nil {
		return fail(c, err)
	}
	if p.Status != model.ProductAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "product is not on shelf"})
	}
	if err := h.Cart.AddItem(c.Request().Context(), getUserID(c), req.ProductID, req.Quantity); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type cartLine struct {
	model.CartItem
	Product model.Product `json:"product"`
	Total   int64         `json:"total_cents"`
}

// List returns the cart with current product details and a grand total.
// Prices here are advisory; the binding price is snapshotted at checkout.
func (h *CartHandler) List(c echo.Context) error {
	items, err := h.Cart.List(c.Request().Context(), getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	lines := make([]cartLine, 0, len(items))
	var total int64
	for _, it := range items {
		p, err := h.Products.GetByID(c.Request().Context(), it.ProductID)
		if err != nil {
			continue // product vanished; skip the stale line
		}
		lt := p.PriceCents * int64(it.Quantity)
		lines = append(lines, cartLine{CartItem: it, Product: p, Total: lt})
		total += lt
	}
	return c.JSON(http.StatusOK, echo.Map{"items": lines, "total_cents": total})
}

type cartQtyReq struct {
	Quantity int `json:"quantity"`
}

// SetQuantity overwrites a line's quantity; zero removes the line.
func (h *CartHandler) SetQuantity(c echo.Context) error {
	productID, err := parseID(c, "product_id")
	if err != nil {
		return err
	}
	var req cartQtyReq
	if err := c.Bind(&req); err != nil || req.Quantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must not be negative"})
	}
	uid := getUserID(c)
	if req.Quantity == 0 {
		if err := h.Cart.RemoveItem(c.Request().Context(), uid, productID); err != nil {
			return fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
	if err := h.Cart.SetQuantity(c.Request().Context(), uid, productID, req.Quantity); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove deletes a line.
func (h *CartHandler) Remove(c echo.Context) error {
	productID, err := parseID(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.Cart.RemoveItem(c.Request().Context(), getUserID(c), productID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
