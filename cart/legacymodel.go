package cart

import "encoding/xml"

const (
	soapEnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	cartNamespace         = "http://example.com/shoppingcart"

	faultCodeClient = "soap:Client"
	faultCodeServer = "soap:Server"
)

type soapEnvelope struct {
	XMLName   xml.Name `xml:"soap:Envelope"`
	Namespace string   `xml:"xmlns:soap,attr"`
	Body      soapBody `xml:"soap:Body"`
}

type soapBody struct {
	Content any
}

type soapFault struct {
	XMLName xml.Name `xml:"soap:Fault"`
	Code    string   `xml:"faultcode"`
	String  string   `xml:"faultstring"`
}

type legacyAddItemRequest struct {
	ProductID string `xml:"productId"`
	Quantity  int    `xml:"quantity"`
}

type legacyAddItemResponse struct {
	XMLName xml.Name `xml:"http://example.com/shoppingcart AddItemResponse"`
	Success bool     `xml:"success"`
}

type legacyGetCartRequest struct{}

type legacyCartItem struct {
	ProductID string `xml:"productId"`
	Quantity  int    `xml:"quantity"`
}

type legacyGetCartResponse struct {
	XMLName    xml.Name         `xml:"http://example.com/shoppingcart GetCartResponse"`
	CartItems  []legacyCartItem `xml:"cartItems"`
	TotalItems int              `xml:"totalItems"`
}

type legacyRemoveItemRequest struct {
	ProductID string `xml:"productId"`
}

type legacyRemoveItemResponse struct {
	XMLName xml.Name `xml:"http://example.com/shoppingcart RemoveItemResponse"`
	Success bool     `xml:"success"`
}

type legacyUpdateQuantityRequest struct {
	ProductID string `xml:"productId"`
	Quantity  int    `xml:"quantity"`
}

type legacyUpdateQuantityResponse struct {
	XMLName xml.Name `xml:"http://example.com/shoppingcart UpdateQuantityResponse"`
	Success bool     `xml:"success"`
}

type legacyClearCartRequest struct{}

type legacyClearCartResponse struct {
	XMLName xml.Name `xml:"http://example.com/shoppingcart ClearCartResponse"`
	Success bool     `xml:"success"`
}
