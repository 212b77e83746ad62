package cart

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/shopcart/cart/store"
	"github.com/MarcGrol/shopcart/lib/myerrors"
	"github.com/MarcGrol/shopcart/lib/mylog"
	"github.com/MarcGrol/shopcart/lib/mymetrics"
	"github.com/MarcGrol/shopcart/lib/mypublisher"
	"github.com/MarcGrol/shopcart/lib/mystore"
	"github.com/MarcGrol/shopcart/lib/mytime"
	"github.com/MarcGrol/shopcart/lib/myuuid"
)

func TestNewOrderUID(t *testing.T) {
	assert.Equal(t, "ORDER-3F2B8C1A", newOrderUID("3f2b8c1a-9d4e-4f00-8000-000000000000"))
	assert.Equal(t, "ORDER-AB", newOrderUID("ab"))
}

func TestCheckoutRestoresCartWhenOrderCannotBeStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := context.TODO()

	// given
	cartStore := store.New()
	orderStore := mystore.NewMockStore[Order](ctrl)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	sut := newService(cartStore, orderStore, mypublisher.NewMockPublisher(ctrl), pricing, nower, uuider, nil, mylog.New("cart"))

	_, err := cartStore.AddItem("apple", 3)
	require.NoError(t, err)
	nower.EXPECT().Now().Return(mytime.ExampleTime)
	uuider.EXPECT().Create().Return("12345678-0000")
	orderStore.EXPECT().Put(gomock.Any(), "ORDER-12345678", gomock.Any()).Return(fmt.Errorf("datastore unavailable"))

	// when
	_, err = sut.checkout(c)

	// then
	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, myerrors.GetHTTPStatus(err))
	entry, found := cartStore.Get("apple")
	assert.True(t, found)
	assert.Equal(t, 3, entry.Quantity)
}

func TestCheckoutDoesNotLoseConcurrentAdds(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := context.TODO()

	// given
	cartStore := store.New()
	orderStore, _, err := mystore.NewInMemoryStore[Order](c)
	require.NoError(t, err)
	publisher := mypublisher.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	uuidCount := 0
	uuider := myuuid.NewMockUUIDer(ctrl)
	uuider.EXPECT().Create().DoAndReturn(func() string {
		uuidCount++
		return fmt.Sprintf("%08d-0000", uuidCount)
	}).AnyTimes()
	sut := newService(cartStore, orderStore, publisher, pricing, mytime.RealNower{}, uuider, nil, mylog.New("cart"))

	// when
	const adds = 500
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < adds; i++ {
			_, err := cartStore.AddItem("apple", 1)
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, _ = sut.checkout(c)
		}
	}()
	wg.Wait()

	// then
	orders, err := orderStore.List(c)
	require.NoError(t, err)
	checkedOut := 0
	for _, o := range orders {
		checkedOut += o.TotalQuantity
	}
	assert.Equal(t, adds, checkedOut+cartStore.TotalQuantity())
}

func TestOperationMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := context.TODO()

	// given
	metrics := mymetrics.New("test")
	sut := newService(store.New(), mystore.NewMockStore[Order](ctrl), mypublisher.NewMockPublisher(ctrl), pricing,
		mytime.NewMockNower(ctrl), myuuid.NewMockUUIDer(ctrl), metrics, mylog.New("cart"))

	// when
	_, err := sut.addItem(c, "apple", 1)
	require.NoError(t, err)
	_, err = sut.addItem(c, "apple", -1)
	require.Error(t, err)
	err = sut.removeItem(c, "apple")
	require.NoError(t, err)
	err = sut.removeItem(c, "apple")
	require.Error(t, err)
	_, err = sut.checkout(c)
	require.Error(t, err)
	_, err = sut.checkout(c)
	require.Error(t, err)

	// then
	response := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	got := response.Body.String()
	assert.Contains(t, got, `test_cart_operations_total{operation="add_item",outcome="success"} 1`)
	assert.Contains(t, got, `test_cart_operations_total{operation="add_item",outcome="invalid"} 1`)
	assert.Contains(t, got, `test_cart_operations_total{operation="remove_item",outcome="success"} 1`)
	assert.Contains(t, got, `test_cart_operations_total{operation="remove_item",outcome="not_found"} 1`)
	assert.Contains(t, got, `test_cart_operations_total{operation="checkout",outcome="invalid"} 2`)
}

func TestCheckoutRejectsAmountBeyondMaximum(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := context.TODO()

	// given
	cartStore := store.New()
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	sut := newService(cartStore, mystore.NewMockStore[Order](ctrl), mypublisher.NewMockPublisher(ctrl), pricing, nower, uuider, nil, mylog.New("cart"))

	_, err := cartStore.AddItem("apple", math.MaxInt)
	require.NoError(t, err)
	nower.EXPECT().Now().Return(mytime.ExampleTime)
	uuider.EXPECT().Create().Return("12345678-0000")

	// when
	_, err = sut.checkout(c)

	// then
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
	assert.Equal(t, math.MaxInt, cartStore.TotalQuantity())
}
