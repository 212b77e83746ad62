package store

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartStore(t *testing.T) {

	t.Run("Add creates on first use", func(t *testing.T) {
		sut := New()

		entry, err := sut.AddItem("B", 4)

		require.NoError(t, err)
		assert.Equal(t, Entry{ProductID: "B", Quantity: 4}, entry)
		assert.Equal(t, []Entry{{ProductID: "B", Quantity: 4}}, sut.GetAll())
	})

	t.Run("Add is cumulative", func(t *testing.T) {
		sut := New()

		_, err := sut.AddItem("A", 2)
		require.NoError(t, err)
		entry, err := sut.AddItem("A", 3)

		require.NoError(t, err)
		assert.Equal(t, Entry{ProductID: "A", Quantity: 5}, entry)
		assert.Equal(t, 1, sut.Size())
	})

	t.Run("Invalid quantity rejected without side effect", func(t *testing.T) {
		sut := New()
		_, err := sut.AddItem("A", 2)
		require.NoError(t, err)

		_, err = sut.AddItem("A", 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = sut.AddItem("A", -1)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		assert.Equal(t, 1, sut.Size())
		assert.Equal(t, 2, sut.TotalQuantity())
	})

	t.Run("Blank product rejected without side effect", func(t *testing.T) {
		sut := New()

		_, err := sut.AddItem("", 1)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = sut.AddItem("   ", 1)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		assert.Equal(t, 0, sut.Size())
	})

	t.Run("Overflowing add rejected without side effect", func(t *testing.T) {
		sut := New()
		_, err := sut.AddItem("A", math.MaxInt)
		require.NoError(t, err)

		_, err = sut.AddItem("A", 1)

		assert.ErrorIs(t, err, ErrInvalidArgument)
		entry, found := sut.Get("A")
		assert.True(t, found)
		assert.Equal(t, math.MaxInt, entry.Quantity)
	})

	t.Run("Add overflowing the cart total rejected without side effect", func(t *testing.T) {
		sut := New()
		_, err := sut.AddItem("A", math.MaxInt)
		require.NoError(t, err)

		_, err = sut.AddItem("B", 1)

		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, found := sut.Get("B")
		assert.False(t, found)
		assert.Equal(t, 1, sut.Size())
		assert.Equal(t, math.MaxInt, sut.TotalQuantity())
	})

	t.Run("SetQuantity overflowing the cart total rejected without side effect", func(t *testing.T) {
		sut := New()
		_, err := sut.AddItem("A", math.MaxInt-10)
		require.NoError(t, err)
		_, err = sut.AddItem("B", 5)
		require.NoError(t, err)

		_, _, err = sut.SetQuantity("B", 11)

		assert.ErrorIs(t, err, ErrInvalidArgument)
		entry, _ := sut.Get("B")
		assert.Equal(t, 5, entry.Quantity)
		assert.Equal(t, math.MaxInt-5, sut.TotalQuantity())

		_, _, err = sut.SetQuantity("B", 10)
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt, sut.TotalQuantity())
	})

	t.Run("Total follows every mutation", func(t *testing.T) {
		sut := New()
		_, err := sut.AddItem("A", 3)
		require.NoError(t, err)
		_, err = sut.AddItem("B", 4)
		require.NoError(t, err)
		assert.Equal(t, 7, sut.TotalQuantity())

		_, _, err = sut.SetQuantity("A", 1)
		require.NoError(t, err)
		assert.Equal(t, 5, sut.TotalQuantity())

		sut.RemoveItem("B")
		assert.Equal(t, 1, sut.TotalQuantity())

		sut.TakeAll()
		assert.Equal(t, 0, sut.TotalQuantity())

		_, err = sut.AddItem("C", 2)
		require.NoError(t, err)
		sut.Clear()
		assert.Equal(t, 0, sut.TotalQuantity())

		_, err = sut.AddItem("D", math.MaxInt)
		assert.NoError(t, err)
	})

	t.Run("Get", func(t *testing.T) {
		sut := New()
		_, err := sut.AddItem("A", 2)
		require.NoError(t, err)

		entry, found := sut.Get("A")
		assert.True(t, found)
		assert.Equal(t, Entry{ProductID: "A", Quantity: 2}, entry)

		_, found = sut.Get("Z")
		assert.False(t, found)
	})

	t.Run("GetAll on empty store", func(t *testing.T) {
		sut := New()

		all := sut.GetAll()

		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("GetAll returns all entries", func(t *testing.T) {
		sut := New()
		_, _ = sut.AddItem("PROD1", 2)
		_, _ = sut.AddItem("PROD2", 5)

		assert.ElementsMatch(t, []Entry{{ProductID: "PROD1", Quantity: 2}, {ProductID: "PROD2", Quantity: 5}}, sut.GetAll())
	})

	t.Run("SetQuantity replaces existing", func(t *testing.T) {
		sut := New()
		_, _ = sut.AddItem("A", 2)

		entry, found, err := sut.SetQuantity("A", 7)

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, Entry{ProductID: "A", Quantity: 7}, entry)
		assert.Equal(t, 7, sut.TotalQuantity())
	})

	t.Run("SetQuantity on missing key", func(t *testing.T) {
		sut := New()
		_, _ = sut.AddItem("A", 2)

		_, found, err := sut.SetQuantity("Z", 5)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, 1, sut.Size())
		_, exists := sut.Get("Z")
		assert.False(t, exists)
	})

	t.Run("SetQuantity invalid quantity", func(t *testing.T) {
		sut := New()
		_, _ = sut.AddItem("A", 2)

		_, _, err := sut.SetQuantity("A", 0)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, _, err = sut.SetQuantity("A", -3)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, _, err = sut.SetQuantity("", 3)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		assert.Equal(t, 2, sut.TotalQuantity())
	})

	t.Run("Remove is idempotent in effect", func(t *testing.T) {
		sut := New()
		_, _ = sut.AddItem("A", 2)
		_, _ = sut.AddItem("B", 1)

		assert.True(t, sut.RemoveItem("A"))
		assert.Equal(t, 1, sut.Size())

		assert.False(t, sut.RemoveItem("A"))
		assert.Equal(t, 1, sut.Size())
	})

	t.Run("Clear empties unconditionally", func(t *testing.T) {
		sut := New()
		_, _ = sut.AddItem("A", 2)
		_, _ = sut.AddItem("B", 3)
		_, _ = sut.AddItem("A", 1)

		sut.Clear()

		assert.Equal(t, 0, sut.Size())
		assert.Equal(t, 0, sut.TotalQuantity())
		assert.Empty(t, sut.GetAll())

		sut.Clear()
		assert.Equal(t, 0, sut.Size())
	})

	t.Run("TakeAll drains", func(t *testing.T) {
		sut := New()
		_, _ = sut.AddItem("A", 2)
		_, _ = sut.AddItem("B", 3)

		taken := sut.TakeAll()

		assert.ElementsMatch(t, []Entry{{ProductID: "A", Quantity: 2}, {ProductID: "B", Quantity: 3}}, taken)
		assert.Equal(t, 0, sut.Size())
		assert.Empty(t, sut.TakeAll())
	})

	t.Run("Aggregates", func(t *testing.T) {
		sut := New()
		_, _ = sut.AddItem("A", 2)
		_, _ = sut.AddItem("B", 3)
		_, _ = sut.AddItem("C", 10)

		assert.Equal(t, 3, sut.Size())
		assert.Equal(t, 15, sut.TotalQuantity())
	})
}

func TestCartStoreConcurrentIncrements(t *testing.T) {
	const (
		workers        = 10
		incrementsEach = 100
		concurrentProd = "CONCURRENT_PROD"
	)
	sut := New()

	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < incrementsEach; j++ {
				_, err := sut.AddItem(concurrentProd, 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*incrementsEach, sut.TotalQuantity())
	assert.Equal(t, 1, sut.Size())
}

func TestCartStoreConcurrentMixedOperations(t *testing.T) {
	sut := New()
	products := []string{"A", "B", "C", "D"}

	wg := sync.WaitGroup{}
	for _, productID := range products {
		wg.Add(3)
		go func(productID string) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, _ = sut.AddItem(productID, 1)
			}
		}(productID)
		go func(productID string) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, _, _ = sut.SetQuantity(productID, 3)
				_ = sut.RemoveItem(productID)
			}
		}(productID)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				for _, entry := range sut.GetAll() {
					assert.Positive(t, entry.Quantity)
				}
				_ = sut.TotalQuantity()
			}
		}()
	}
	wg.Wait()

	for _, entry := range sut.GetAll() {
		assert.Positive(t, entry.Quantity)
		assert.Contains(t, products, entry.ProductID)
	}
	assert.LessOrEqual(t, sut.Size(), len(products))
}
