package cartevents

const (
	TopicName             = "cart"
	checkoutCompletedName = TopicName + ".checkout.completed"
	cartClearedName       = TopicName + ".cleared"
)

type CheckoutCompleted struct {
	OrderUID      string
	TotalQuantity int
	TotalAmount   int64
	Currency      string
}

func (e CheckoutCompleted) GetEventTypeName() string {
	return checkoutCompletedName
}

func (e CheckoutCompleted) GetAggregateName() string {
	return e.OrderUID
}

type CartCleared struct {
	ItemCount int
}

func (e CartCleared) GetEventTypeName() string {
	return cartClearedName
}

func (e CartCleared) GetAggregateName() string {
	return TopicName
}
