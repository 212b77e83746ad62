package store

import "errors"

// ErrInvalidArgument is returned for a blank product id or a non-positive quantity. The cart is never modified.
var ErrInvalidArgument = errors.New("invalid argument")

// Entry is one line of the cart: a product and its quantity, which is always positive.
type Entry struct {
	ProductID string
	Quantity  int
}

type CartStorer interface {
	AddItem(productID string, quantity int) (Entry, error)
	Get(productID string) (Entry, bool)
	GetAll() []Entry
	SetQuantity(productID string, quantity int) (Entry, bool, error)
	RemoveItem(productID string) bool
	Clear()
	TakeAll() []Entry
	Size() int
	TotalQuantity() int
}
