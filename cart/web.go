package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopcart/cart/cartevents"
	"github.com/MarcGrol/shopcart/cart/store"
	"github.com/MarcGrol/shopcart/lib/mycontext"
	"github.com/MarcGrol/shopcart/lib/myerrors"
	"github.com/MarcGrol/shopcart/lib/myhttp"
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/lib/mymetrics"
	"github.com/MarcGrol/shopcart/lib/mypublisher"
	"github.com/MarcGrol/shopcart/lib/mystore"
	"github.com/MarcGrol/shopcart/lib/mytime"
	"github.com/MarcGrol/shopcart/lib/myuuid"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(cartStore store.CartStorer, orderStore mystore.Store[Order], pub mypublisher.Publisher, pricing Pricing,
	nower mytime.Nower, uuider myuuid.UUIDer, metrics *mymetrics.Metrics, logger mylog.Logger) *webService {
	return &webService{
		service: newService(cartStore, orderStore, pub, pricing, nower, uuider, metrics, logger),
		logger:  logger,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.service.publisher.CreateTopic(c, cartevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", cartevents.TopicName, err)
	}

	router.HandleFunc("/api/cart", s.getCart()).Methods("GET")
	router.HandleFunc("/api/cart", s.clearCart()).Methods("DELETE")
	router.HandleFunc("/api/cart/items", s.addItem()).Methods("POST")
	router.HandleFunc("/api/cart/items/{productID}", s.getItem()).Methods("GET")
	router.HandleFunc("/api/cart/items/{productID}", s.updateQuantity()).Methods("PUT")
	router.HandleFunc("/api/cart/items/{productID}", s.removeItem()).Methods("DELETE")
	router.HandleFunc("/api/cart/checkout", s.checkout()).Methods("POST")
	router.HandleFunc("/api/cart/health", s.health()).Methods("GET")
	router.HandleFunc("/_ah/warmup", s.warmup()).Methods("GET")

	router.HandleFunc("/api/orders", s.listOrders()).Methods("GET")
	router.HandleFunc("/api/orders/{orderUID}", s.getOrder()).Methods("GET")

	// Older clients keep using the soap endpoint on the same cart
	newLegacyService(s.service, s.logger).RegisterEndpoints(router)

	return nil
}

func (s webService) addItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		req := AddItemRequest{}
		err := decodeBody(r, &req)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		entry, err := s.service.addItem(c, req.ProductID, req.Quantity)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusCreated, CartItemResponse{
			ProductID: entry.ProductID,
			Quantity:  entry.Quantity,
			Success:   true,
		})
	}
}

func (s webService) getCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		cart := s.service.getCart(c)

		resp := CartResponse{
			Items:         make([]CartItem, 0, len(cart.Items)),
			TotalItems:    cart.TotalQuantity,
			DistinctItems: cart.DistinctProducts,
		}
		for _, e := range cart.Items {
			resp.Items = append(resp.Items, CartItem{ProductID: e.ProductID, Quantity: e.Quantity})
		}

		responseWriter.Write(c, w, http.StatusOK, resp)
	}
}

func (s webService) getItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		productID := mux.Vars(r)["productID"]

		entry, err := s.service.getItem(c, productID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, CartItem{ProductID: entry.ProductID, Quantity: entry.Quantity})
	}
}

func (s webService) updateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		productID := mux.Vars(r)["productID"]

		req := UpdateQuantityRequest{}
		err := decodeBody(r, &req)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}
		if req.Quantity == nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputErrorf("quantity is required"))
			return
		}

		_, err = s.service.updateQuantity(c, productID, *req.Quantity)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		message := fmt.Sprintf("Updated quantity for %s to %d", productID, *req.Quantity)
		if *req.Quantity == 0 {
			message = fmt.Sprintf("Removed %s from cart", productID)
		}
		responseWriter.Write(c, w, http.StatusOK, APIResponse{Success: true, Message: message})
	}
}

func (s webService) removeItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		productID := mux.Vars(r)["productID"]

		err := s.service.removeItem(c, productID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, APIResponse{
			Success: true,
			Message: fmt.Sprintf("Removed %s from cart", productID),
		})
	}
}

func (s webService) clearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		count := s.service.clearCart(c)

		responseWriter.Write(c, w, http.StatusOK, APIResponse{
			Success: true,
			Message: fmt.Sprintf("Cleared cart (%d items removed)", count),
		})
	}
}

func (s webService) checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		order, err := s.service.checkout(c)
		if err != nil {
			responseWriter.Write(c, w, myerrors.GetHTTPStatus(err), CheckoutResponse{
				Success: false,
				Message: err.Error(),
			})
			return
		}

		responseWriter.Write(c, w, http.StatusOK, CheckoutResponse{
			Success:  true,
			Message:  "Checkout completed successfully",
			Total:    float64(order.TotalAmount) / 100.0,
			Currency: order.Currency,
			OrderID:  order.UID,
			OrderURL: fmt.Sprintf("%s/api/orders/%s", myhttp.HostnameWithScheme(r), order.UID),
		})
	}
}

func (s webService) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		myhttp.NewWriter(s.logger).Write(c, w, http.StatusOK, APIResponse{
			Success: true,
			Message: "Cart service is healthy",
		})
	}
}

// warmup opens the order store connection before the first real request arrives
func (s webService) warmup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		_, err := s.service.listOrders(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}

func (s webService) listOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		orders, err := s.service.listOrders(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, orders)
	}
}

func (s webService) getOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]

		order, err := s.service.getOrder(c, orderUID)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, order)
	}
}

// decodeBody accepts json and url-encoded form bodies.
func decodeBody(r *http.Request, dest any) error {
	mediaType := "application/json"
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return myerrors.NewUnsupportedMediaTypeError(fmt.Errorf("invalid content-type %q: %s", contentType, err))
		}
		mediaType = parsed
	}

	switch mediaType {
	case "application/json":
		err := json.NewDecoder(r.Body).Decode(dest)
		if err != nil {
			return myerrors.NewInvalidInputErrorf("error parsing json request-body: %s", err)
		}
	case "application/x-www-form-urlencoded":
		err := r.ParseForm()
		if err != nil {
			return myerrors.NewInvalidInputErrorf("error parsing form request-body: %s", err)
		}
		err = formcodec.NewDecoder().Decode(dest, r.PostForm)
		if err != nil {
			return myerrors.NewInvalidInputErrorf("error decoding form: %s", err)
		}
	default:
		return myerrors.NewUnsupportedMediaTypeError(fmt.Errorf("unsupported content-type %q", mediaType))
	}

	return nil
}
