package cart

import (
	"github.com/MarcGrol/shopcart/cart/store"
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/lib/mymetrics"
	"github.com/MarcGrol/shopcart/lib/mypublisher"
	"github.com/MarcGrol/shopcart/lib/mystore"
	"github.com/MarcGrol/shopcart/lib/mytime"
	"github.com/MarcGrol/shopcart/lib/myuuid"
)

type service struct {
	cartStore  store.CartStorer
	orderStore mystore.Store[Order]
	publisher  mypublisher.Publisher
	pricing    Pricing
	nower      mytime.Nower
	uuider     myuuid.UUIDer
	metrics    *mymetrics.Metrics
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(cartStore store.CartStorer, orderStore mystore.Store[Order], pub mypublisher.Publisher, pricing Pricing,
	nower mytime.Nower, uuider myuuid.UUIDer, metrics *mymetrics.Metrics, logger mylog.Logger) *service {
	return &service{
		cartStore:  cartStore,
		orderStore: orderStore,
		publisher:  pub,
		pricing:    pricing,
		nower:      nower,
		uuider:     uuider,
		metrics:    metrics,
		logger:     logger,
	}
}
