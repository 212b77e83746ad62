package cart

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopcart/lib/mycontext"
	"github.com/MarcGrol/shopcart/lib/myerrors"
	"github.com/MarcGrol/shopcart/lib/mylog"
)

// legacyService exposes the cart to older clients that still speak SOAP 1.1.
type legacyService struct {
	service *service
	logger  mylog.Logger
}

func newLegacyService(service *service, logger mylog.Logger) *legacyService {
	return &legacyService{
		service: service,
		logger:  logger,
	}
}

func (s legacyService) RegisterEndpoints(router *mux.Router) {
	router.HandleFunc("/ws", s.handleEnvelope()).Methods("POST")
}

func (s legacyService) handleEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		decoder, payload, err := readPayload(r.Body)
		if err != nil {
			s.writeFault(c, w, faultCodeClient, err)
			return
		}

		s.logger.Log(c, "", mylog.SeverityInfo, "Legacy request %s", payload.Name.Local)

		resp, err := s.dispatch(c, decoder, payload)
		if err != nil {
			faultCode := faultCodeServer
			if myerrors.GetHTTPStatus(err) < http.StatusInternalServerError {
				faultCode = faultCodeClient
			}
			s.writeFault(c, w, faultCode, err)
			return
		}

		s.write(c, w, http.StatusOK, resp)
	}
}

func (s legacyService) dispatch(c context.Context, decoder *xml.Decoder, payload xml.StartElement) (any, error) {
	if payload.Name.Space != cartNamespace {
		return nil, myerrors.NewInvalidInputErrorf("unknown namespace %q", payload.Name.Space)
	}

	switch payload.Name.Local {
	case "AddItemRequest":
		req := legacyAddItemRequest{}
		err := decodePayload(decoder, payload, &req)
		if err != nil {
			return nil, err
		}
		_, err = s.service.addItem(c, req.ProductID, req.Quantity)
		if err != nil {
			return nil, err
		}
		return legacyAddItemResponse{Success: true}, nil

	case "GetCartRequest":
		err := decodePayload(decoder, payload, &legacyGetCartRequest{})
		if err != nil {
			return nil, err
		}
		cart := s.service.getCart(c)
		resp := legacyGetCartResponse{
			CartItems:  make([]legacyCartItem, 0, len(cart.Items)),
			TotalItems: cart.TotalQuantity,
		}
		for _, e := range cart.Items {
			resp.CartItems = append(resp.CartItems, legacyCartItem{ProductID: e.ProductID, Quantity: e.Quantity})
		}
		return resp, nil

	case "RemoveItemRequest":
		req := legacyRemoveItemRequest{}
		err := decodePayload(decoder, payload, &req)
		if err != nil {
			return nil, err
		}
		err = s.service.removeItem(c, req.ProductID)
		if err != nil && myerrors.GetHTTPStatus(err) != http.StatusNotFound {
			return nil, err
		}
		return legacyRemoveItemResponse{Success: err == nil}, nil

	case "UpdateQuantityRequest":
		req := legacyUpdateQuantityRequest{}
		err := decodePayload(decoder, payload, &req)
		if err != nil {
			return nil, err
		}
		_, err = s.service.setQuantity(c, req.ProductID, req.Quantity)
		if err != nil && myerrors.GetHTTPStatus(err) != http.StatusNotFound {
			return nil, err
		}
		return legacyUpdateQuantityResponse{Success: err == nil}, nil

	case "ClearCartRequest":
		err := decodePayload(decoder, payload, &legacyClearCartRequest{})
		if err != nil {
			return nil, err
		}
		s.service.clearCart(c)
		return legacyClearCartResponse{Success: true}, nil

	default:
		return nil, myerrors.NewInvalidInputErrorf("unknown operation %s", payload.Name.Local)
	}
}

// readPayload positions the decoder on the first element inside the soap body.
func readPayload(body io.Reader) (*xml.Decoder, xml.StartElement, error) {
	decoder := xml.NewDecoder(body)
	depth := 0
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, xml.StartElement{}, fmt.Errorf("error reading soap envelope: %s", err)
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		switch depth {
		case 0:
			if start.Name.Space != soapEnvelopeNamespace || start.Name.Local != "Envelope" {
				return nil, xml.StartElement{}, fmt.Errorf("expected soap envelope, got %s", start.Name.Local)
			}
		case 1:
			if start.Name.Space == soapEnvelopeNamespace && start.Name.Local == "Header" {
				err = decoder.Skip()
				if err != nil {
					return nil, xml.StartElement{}, fmt.Errorf("error reading soap header: %s", err)
				}
				continue
			}
			if start.Name.Space != soapEnvelopeNamespace || start.Name.Local != "Body" {
				return nil, xml.StartElement{}, fmt.Errorf("expected soap body, got %s", start.Name.Local)
			}
		default:
			return decoder, start, nil
		}
		depth++
	}
}

func decodePayload(decoder *xml.Decoder, payload xml.StartElement, dest any) error {
	err := decoder.DecodeElement(dest, &payload)
	if err != nil {
		return myerrors.NewInvalidInputErrorf("error decoding %s: %s", payload.Name.Local, err)
	}
	return nil
}

func (s legacyService) writeFault(c context.Context, w http.ResponseWriter, faultCode string, err error) {
	s.logger.Log(c, "", mylog.SeverityWarn, "Legacy fault response: %s: %s", faultCode, err)
	s.write(c, w, http.StatusInternalServerError, soapFault{
		Code:   faultCode,
		String: err.Error(),
	})
}

func (s legacyService) write(c context.Context, w http.ResponseWriter, httpStatus int, content any) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(httpStatus)

	_, _ = io.WriteString(w, xml.Header)
	err := xml.NewEncoder(w).Encode(soapEnvelope{
		Namespace: soapEnvelopeNamespace,
		Body:      soapBody{Content: content},
	})
	if err != nil {
		s.logger.Log(c, "", mylog.SeverityError, "Error writing legacy response: %s", err)
	}
}
