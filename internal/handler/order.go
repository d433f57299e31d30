package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/repository"
	"github.com/driftdock/marina-api/internal/service"
)

// OrderHandler covers the order lifecycle for buyers and merchants.
type OrderHandler struct {
	Orders *repository.OrderRepo
	Svc    *service.OrderService
}

type shippingPart struct {
	ReceiverName    string `json:"receiver_name"`
	ReceiverPhone   string `json:"receiver_phone"`
	ReceiverAddress string `json:"receiver_address"`
	Notes           string `json:"notes"`
}

func (s shippingPart) validate() error {
	if s.ReceiverName == "" || s.ReceiverPhone == "" || s.ReceiverAddress == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "receiver_name, receiver_phone and receiver_address are required")
	}
	return nil
}

func (s shippingPart) toInfo() service.ShippingInfo {
	return service.ShippingInfo{
		ReceiverName:    s.ReceiverName,
		ReceiverPhone:   s.ReceiverPhone,
		ReceiverAddress: s.ReceiverAddress,
		Notes:           s.Notes,
	}
}

type directOrderReq struct {
	ProductID uint64 `json:"product_id"`
	Quantity  int    `json:"quantity"`
	shippingPart
}

// CreateDirect checks out a single product without touching the cart.
func (h *OrderHandler) CreateDirect(c echo.Context) error {
	var req directOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required"})
	}
	if err := req.validate(); err != nil {
		return err
	}
	orders, err := h.Svc.CreateDirect(c.Request().Context(), getUserID(c), req.ProductID, req.Quantity, req.toInfo())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, orders)
}

type cartOrderReq struct {
	shippingPart
}

// CreateFromCart checks out the whole cart, one order per merchant.
func (h *OrderHandler) CreateFromCart(c echo.Context) error {
	var req cartOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := req.validate(); err != nil {
		return err
	}
	orders, err := h.Svc.CreateFromCart(c.Request().Context(), getUserID(c), req.toInfo())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, orders)
}

// Get returns one order, visible to its buyer, merchant and admins.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.Orders.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if !service.CanViewOrder(o, getUserID(c), getRole(c)) {
		return fail(c, model.ErrForbidden)
	}
	return c.JSON(http.StatusOK, o)
}

// ListMine returns the caller's orders as a buyer.
func (h *OrderHandler) ListMine(c echo.Context) error {
	os, err := h.Orders.ListByUser(c.Request().Context(), getUserID(c), c.QueryParam("status"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, os)
}

// ListForMerchant returns the calling merchant's inbound orders.
func (h *OrderHandler) ListForMerchant(c echo.Context) error {
	os, err := h.Orders.ListByMerchant(c.Request().Context(), getUserID(c), c.QueryParam("status"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, os)
}

// Pay captures payment for the caller's pending order.
func (h *OrderHandler) Pay(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.Svc.Pay(c.Request().Context(), getUserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

type shipReq struct {
	Carrier    string `json:"carrier"`
	TrackingNo string `json:"tracking_no"`
}

// Ship records shipment of a paid order (merchant only).
func (h *OrderHandler) Ship(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req shipReq
	if err := c.Bind(&req); err != nil || req.Carrier == "" || req.TrackingNo == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "carrier and tracking_no are required"})
	}
	o, err := h.Svc.Ship(c.Request().Context(), getUserID(c), id, req.Carrier, req.TrackingNo)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// Complete confirms receipt of a shipped order (buyer only).
func (h *OrderHandler) Complete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.Svc.Complete(c.Request().Context(), getUserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// Cancel cancels an unshipped order (buyer or merchant).
func (h *OrderHandler) Cancel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	o, err := h.Svc.Cancel(c.Request().Context(), getUserID(c), getRole(c), id, req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, o)
}
