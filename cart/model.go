package cart

import (
	"fmt"
	"time"
)

type Order struct {
	UID           string
	CreatedAt     time.Time
	Items         []OrderLine
	TotalQuantity int
	TotalAmount   int64
	Currency      string
}

type OrderLine struct {
	ProductID string
	Quantity  int
	UnitPrice int64
}

func (o Order) GetPriceInCurrency() string {
	return fmt.Sprintf("%s %.2f", o.Currency, float64(o.TotalAmount)/100.0)
}

// Pricing is the flat per-unit price used at checkout.
type Pricing struct {
	UnitPrice int64
	Currency  string
}

type AddItemRequest struct {
	ProductID string `json:"productId" form:"productId"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" form:"quantity"`
}

type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CartItemResponse struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Success   bool   `json:"success"`
}

type CartResponse struct {
	Items         []CartItem `json:"items"`
	TotalItems    int        `json:"totalItems"`
	DistinctItems int        `json:"distinctItems"`
}

type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CheckoutResponse struct {
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency,omitempty"`
	OrderID  string  `json:"orderId,omitempty"`
	OrderURL string  `json:"orderUrl,omitempty"`
}
