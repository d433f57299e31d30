package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/driftdock/marina-api/internal/model"
	"github.com/driftdock/marina-api/internal/queue"
	"github.com/driftdock/marina-api/internal/repository"
	"github.com/driftdock/marina-api/internal/utils"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrBadQuantity    = errors.New("quantity must be positive")
	ErrProductNotOpen = errors.New("product is not on shelf")
)

// OrderService drives the product order lifecycle. Stock is taken at order
// creation and returned on cancellation; every order belongs to exactly one
// merchant, so a mixed cart checks out as several orders in one
// transaction.
type OrderService struct {
	DB       *sql.DB
	Products *repository.ProductRepo
	Orders   *repository.OrderRepo
	Cart     *repository.CartRepo
	Notifier *Notifier
	Settler  *Settler
}

// ShippingInfo is the delivery address block shared by both checkout paths.
type ShippingInfo struct {
	ReceiverName    string
	ReceiverPhone   string
	ReceiverAddress string
	Notes           string
}

type orderLine struct {
	productID uint64
	qty       int
}

// CreateDirect checks out a single product, bypassing the cart.
func (s *OrderService) CreateDirect(ctx context.Context, userID, productID uint64, qty int, ship ShippingInfo) ([]model.Order, error) {
	if qty <= 0 {
		return nil, ErrBadQuantity
	}
	return s.create(ctx, userID, []orderLine{{productID, qty}}, ship, false)
}

// CreateFromCart checks out the whole cart, creating one order per merchant
// and clearing the purchased lines.
func (s *OrderService) CreateFromCart(ctx context.Context, userID uint64, ship ShippingInfo) ([]model.Order, error) {
	items, err := s.Cart.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	lines := make([]orderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, orderLine{it.ProductID, it.Quantity})
	}
	return s.create(ctx, userID, lines, ship, true)
}

func (s *OrderService) create(ctx context.Context, userID uint64, lines []orderLine, ship ShippingInfo, clearCart bool) ([]model.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Snapshot products, take stock, and group lines by merchant.
	type group struct {
		items    []model.OrderItem
		subtotal int64
	}
	groups := map[uint64]*group{}
	productIDs := make([]uint64, 0, len(lines))
	for _, ln := range lines {
		if ln.qty <= 0 {
			return nil, ErrBadQuantity
		}
		p, err := s.Products.GetByIDTx(ctx, tx, ln.productID)
		if err != nil {
			return nil, err
		}
		if p.Status != model.ProductAvailable {
			return nil, ErrProductNotOpen
		}
		if err := s.Products.DecrementStockTx(ctx, tx, p.ID, ln.qty); err != nil {
			return nil, err
		}
		g := groups[p.MerchantID]
		if g == nil {
			g = &group{}
			groups[p.MerchantID] = g
		}
		lineTotal := p.PriceCents * int64(ln.qty)
		g.items = append(g.items, model.OrderItem{
			ProductID:      p.ID,
			ProductName:    p.Name,
			ProductUnit:    p.Unit,
			Quantity:       ln.qty,
			UnitPriceCents: p.PriceCents,
			TotalCents:     lineTotal,
		})
		g.subtotal += lineTotal
		productIDs = append(productIDs, p.ID)
	}

	orders := make([]model.Order, 0, len(groups))
	for merchantID, g := range groups {
		shipping := model.ShippingFee(g.subtotal)
		o := model.Order{
			OrderNumber:     utils.RefNumber("OD"),
			UserID:          userID,
			MerchantID:      merchantID,
			TotalCents:      g.subtotal,
			ShippingCents:   shipping,
			FinalCents:      g.subtotal + shipping,
			Status:          model.OrderPendingPayment,
			ReceiverName:    ship.ReceiverName,
			ReceiverPhone:   ship.ReceiverPhone,
			ReceiverAddress: ship.ReceiverAddress,
			UserNotes:       ship.Notes,
			Items:           g.items,
		}
		if err := s.Orders.CreateTx(ctx, tx, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	if clearCart {
		if err := s.Cart.ClearItemsTx(ctx, tx, userID, productIDs); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	for _, o := range orders {
		s.Notifier.Notify(ctx, o.MerchantID, orderEvent(o, model.NotifyOrderCreated,
			"New order",
			fmt.Sprintf("Order %s placed, awaiting payment.", o.OrderNumber)))
	}
	return orders, nil
}

// Pay captures payment for a pending order, bumps sales counters, and
// settles the revenue split. Only the buyer pays their own order.
func (s *OrderService) Pay(ctx context.Context, userID, orderID uint64) (model.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	o, err := s.Orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if o.UserID != userID {
		return model.Order{}, model.ErrForbidden
	}
	paymentRef := utils.RefNumber("PAY")
	if err := s.Orders.MarkPaidTx(ctx, tx, orderID, paymentRef); err != nil {
		return model.Order{}, err
	}
	for _, it := range o.Items {
		if err := s.Products.IncrementSalesTx(ctx, tx, it.ProductID, it.Quantity); err != nil {
			return model.Order{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true

	s.Settler.settleBestEffort(model.KindProductOrder, orderID)

	o, _ = s.Orders.GetByID(ctx, orderID)
	s.Notifier.Notify(ctx, o.MerchantID, orderEvent(o, model.NotifyOrderPaid,
		"Order paid",
		fmt.Sprintf("Order %s is paid and ready to ship.", o.OrderNumber)))
	s.Notifier.Email(ctx, o.UserID, "Payment received",
		fmt.Sprintf("We received your payment of %.2f for order %s.",
			float64(o.FinalCents)/100, o.OrderNumber))
	return o, nil
}

// Ship records carrier and tracking and moves the order to shipped. Only the
// selling merchant ships.
func (s *OrderService) Ship(ctx context.Context, merchantID, orderID uint64, carrier, trackingNo string) (model.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	o, err := s.Orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if o.MerchantID != merchantID {
		return model.Order{}, model.ErrForbidden
	}
	if err := s.Orders.MarkShippedTx(ctx, tx, orderID, carrier, trackingNo); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true

	o, _ = s.Orders.GetByID(ctx, orderID)
	s.Notifier.Notify(ctx, o.UserID, orderEvent(o, model.NotifyOrderShipped,
		"Order shipped",
		fmt.Sprintf("Order %s shipped via %s (%s).", o.OrderNumber, carrier, trackingNo)))
	return o, nil
}

// Complete confirms receipt. Only the buyer completes.
func (s *OrderService) Complete(ctx context.Context, userID, orderID uint64) (model.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	o, err := s.Orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if o.UserID != userID {
		return model.Order{}, model.ErrForbidden
	}
	if err := s.Orders.MarkCompletedTx(ctx, tx, orderID); err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true

	o, _ = s.Orders.GetByID(ctx, orderID)
	s.Notifier.Notify(ctx, o.MerchantID, orderEvent(o, model.NotifyOrderCompleted,
		"Order completed",
		fmt.Sprintf("Order %s was received by the buyer.", o.OrderNumber)))
	return o, nil
}

// Cancel cancels an unshipped order and returns its stock. Buyers cancel
// their own orders; merchants cancel inbound ones. A paid order going back
// signals a refund to the payment side-channel.
func (s *OrderService) Cancel(ctx context.Context, actorID uint64, actorRole string, orderID uint64, reason string) (model.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	o, err := s.Orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if !CanCancelOrder(o, actorID, actorRole) {
		return model.Order{}, model.ErrForbidden
	}
	if !model.OrderCanTransition(o.Status, model.OrderCancelled) {
		return model.Order{}, &model.StateError{Entity: "order", Event: "cancel", Current: o.Status}
	}
	if err := s.Orders.CancelTx(ctx, tx, orderID, o.Status, reason); err != nil {
		return model.Order{}, err
	}
	for _, it := range o.Items {
		if err := s.Products.RestoreStockTx(ctx, tx, it.ProductID, it.Quantity); err != nil {
			return model.Order{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	committed = true

	o, _ = s.Orders.GetByID(ctx, orderID)
	recipient := o.MerchantID
	if actorID != o.UserID {
		recipient = o.UserID
	}
	s.Notifier.Notify(ctx, recipient, orderEvent(o, model.NotifyOrderCancelled,
		"Order cancelled",
		fmt.Sprintf("Order %s was cancelled: %s", o.OrderNumber, reason)))
	return o, nil
}

func orderEvent(o model.Order, kind, title, body string) queue.LifecycleEvent {
	return queue.LifecycleEvent{
		Kind:        kind,
		SourceType:  "order",
		SourceID:    o.ID,
		RefNumber:   o.OrderNumber,
		MerchantID:  o.MerchantID,
		AmountCents: o.FinalCents,
		Title:       title,
		Body:        body,
	}
}
