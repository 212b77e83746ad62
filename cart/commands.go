package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/MarcGrol/shopcart/cart/cartevents"
	"github.com/MarcGrol/shopcart/cart/store"
	"github.com/MarcGrol/shopcart/lib/myerrors"
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/lib/mymetrics"
)

const orderIDPrefix = "ORDER-"

// Cart is a consistent view on the cart contents.
type Cart struct {
	Items            []store.Entry
	TotalQuantity    int
	DistinctProducts int
}

func (s *service) addItem(c context.Context, productID string, quantity int) (store.Entry, error) {
	s.logger.Log(c, productID, mylog.SeverityInfo, "Add %d units of product %s", quantity, productID)

	entry, err := s.cartStore.AddItem(productID, quantity)
	if err != nil {
		return store.Entry{}, s.observe("add_item", translateStoreError(err))
	}
	s.observe("add_item", nil)

	return entry, nil
}

func (s *service) getCart(c context.Context) Cart {
	entries := s.cartStore.GetAll()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProductID < entries[j].ProductID
	})

	// totals come from the same snapshot as the items
	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	s.observe("get_cart", nil)

	return Cart{
		Items:            entries,
		TotalQuantity:    total,
		DistinctProducts: len(entries),
	}
}

func (s *service) getItem(c context.Context, productID string) (store.Entry, error) {
	s.logger.Log(c, productID, mylog.SeverityInfo, "Fetch product %s", productID)

	entry, found := s.cartStore.Get(productID)
	if !found {
		return store.Entry{}, s.observe("get_item", myerrors.NewNotFoundErrorf("product %s not found in cart", productID))
	}
	s.observe("get_item", nil)

	return entry, nil
}

// updateQuantity replaces the quantity of a product already in the cart. A quantity of 0 removes the product.
func (s *service) updateQuantity(c context.Context, productID string, quantity int) (store.Entry, error) {
	s.logger.Log(c, productID, mylog.SeverityInfo, "Update quantity of product %s to %d", productID, quantity)

	if quantity == 0 {
		err := s.removeItem(c, productID)
		if err != nil {
			return store.Entry{}, err
		}
		return store.Entry{ProductID: productID}, nil
	}

	return s.setQuantity(c, productID, quantity)
}

// setQuantity replaces the quantity of a product already in the cart.
func (s *service) setQuantity(c context.Context, productID string, quantity int) (store.Entry, error) {
	entry, found, err := s.cartStore.SetQuantity(productID, quantity)
	if err != nil {
		return store.Entry{}, s.observe("update_quantity", translateStoreError(err))
	}
	if !found {
		return store.Entry{}, s.observe("update_quantity", myerrors.NewNotFoundErrorf("product %s not found in cart", productID))
	}
	s.observe("update_quantity", nil)

	return entry, nil
}

func (s *service) removeItem(c context.Context, productID string) error {
	s.logger.Log(c, productID, mylog.SeverityInfo, "Remove product %s", productID)

	removed := s.cartStore.RemoveItem(productID)
	if !removed {
		return s.observe("remove_item", myerrors.NewNotFoundErrorf("product %s not found in cart", productID))
	}
	s.observe("remove_item", nil)

	return nil
}

// clearCart empties the cart and returns the number of distinct products that were removed.
func (s *service) clearCart(c context.Context) int {
	removed := s.cartStore.TakeAll()

	s.logger.Log(c, "", mylog.SeverityInfo, "Cleared cart: %d products removed", len(removed))
	s.observe("clear_cart", nil)

	if len(removed) > 0 {
		err := s.publisher.Publish(c, cartevents.TopicName, cartevents.CartCleared{ItemCount: len(removed)})
		if err != nil {
			s.logger.Log(c, "", mylog.SeverityError, "Error publishing cart-cleared event: %s", err)
		}
	}

	return len(removed)
}

func (s *service) checkout(c context.Context) (Order, error) {
	entries := s.cartStore.TakeAll()
	if len(entries) == 0 {
		return Order{}, s.observe("checkout", myerrors.NewInvalidInputError(fmt.Errorf("cart is empty")))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProductID < entries[j].ProductID
	})

	order, err := s.createOrder(entries)
	if err != nil {
		s.restore(c, entries)
		return Order{}, s.observe("checkout", myerrors.NewInvalidInputError(err))
	}

	s.logger.Log(c, order.UID, mylog.SeverityInfo, "Checkout cart into order %s (%d units, %s)", order.UID, order.TotalQuantity, order.GetPriceInCurrency())

	err = s.orderStore.Put(c, order.UID, order)
	if err != nil {
		s.restore(c, entries)
		return Order{}, s.observe("checkout", myerrors.NewInternalError(fmt.Errorf("error storing order %s: %s", order.UID, err)))
	}
	s.observe("checkout", nil)

	err = s.publisher.Publish(c, cartevents.TopicName, cartevents.CheckoutCompleted{
		OrderUID:      order.UID,
		TotalQuantity: order.TotalQuantity,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
	})
	if err != nil {
		s.logger.Log(c, order.UID, mylog.SeverityError, "Error publishing checkout-completed event for order %s: %s", order.UID, err)
	}

	return order, nil
}

func (s *service) createOrder(entries []store.Entry) (Order, error) {
	order := Order{
		UID:       newOrderUID(s.uuider.Create()),
		CreatedAt: s.nower.Now(),
		Items:     make([]OrderLine, 0, len(entries)),
		Currency:  s.pricing.Currency,
	}
	for _, e := range entries {
		order.Items = append(order.Items, OrderLine{
			ProductID: e.ProductID,
			Quantity:  e.Quantity,
			UnitPrice: s.pricing.UnitPrice,
		})
		order.TotalQuantity += e.Quantity
	}
	if s.pricing.UnitPrice > 0 && int64(order.TotalQuantity) > math.MaxInt64/s.pricing.UnitPrice {
		return Order{}, fmt.Errorf("total amount of %d units exceeds the maximum order amount", order.TotalQuantity)
	}
	order.TotalAmount = int64(order.TotalQuantity) * s.pricing.UnitPrice

	return order, nil
}

// restore puts the entries of a failed checkout back into the cart.
func (s *service) restore(c context.Context, entries []store.Entry) {
	for _, e := range entries {
		_, err := s.cartStore.AddItem(e.ProductID, e.Quantity)
		if err != nil {
			s.logger.Log(c, e.ProductID, mylog.SeverityError, "Error restoring product %s after failed checkout: %s", e.ProductID, err)
		}
	}
}

func (s *service) getOrder(c context.Context, orderUID string) (Order, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Fetch details of order %s", orderUID)

	order, found, err := s.orderStore.Get(c, orderUID)
	if err != nil {
		return Order{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Order{}, myerrors.NewNotFoundErrorf("order with uid %s not found", orderUID)
	}

	return order, nil
}

func (s *service) listOrders(c context.Context) ([]Order, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch all orders")

	orders, err := s.orderStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *service) observe(operation string, err error) error {
	if s.metrics == nil {
		return err
	}

	outcome := mymetrics.OutcomeSuccess
	if err != nil {
		switch myerrors.GetHTTPStatus(err) {
		case http.StatusBadRequest:
			outcome = mymetrics.OutcomeInvalid
		case http.StatusNotFound:
			outcome = mymetrics.OutcomeNotFound
		default:
			outcome = mymetrics.OutcomeError
		}
	}
	s.metrics.Observe(operation, outcome)

	return err
}

func translateStoreError(err error) error {
	if errors.Is(err, store.ErrInvalidArgument) {
		return myerrors.NewInvalidInputError(err)
	}
	return myerrors.NewInternalError(err)
}

func newOrderUID(uuid string) string {
	short := strings.ReplaceAll(uuid, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return orderIDPrefix + strings.ToUpper(short)
}
