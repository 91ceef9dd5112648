package storefront

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func assertTotalMatchesLines(t *testing.T, o domain.Order) {
	t.Helper()
	assert.True(t, o.Total.Equal(o.LineTotal()), "total %s != sum of lines %s", o.Total, o.LineTotal())
}

func TestNewCart(t *testing.T) {
	o := NewCart(testSession).Order()

	assert.Zero(t, o.IDOrder)
	assert.Equal(t, 42, o.IDCustomer)
	assert.Equal(t, "Ana", o.CustomerName)
	assert.False(t, o.Date.IsZero())
	assert.Empty(t, o.OrderDetails)
	assert.True(t, o.Total.IsZero())
}

func TestCart_AddOrMergeScenario(t *testing.T) {
	c := NewCart(testSession)

	o := c.AddOrMerge(espresso, 2)
	require.Len(t, o.OrderDetails, 1)
	assert.Equal(t, 2, o.OrderDetails[0].Quantity)
	assert.True(t, o.Total.Equal(dec("20")))

	o = c.AddOrMerge(cappuccino, 1)
	require.Len(t, o.OrderDetails, 2)
	assert.True(t, o.Total.Equal(dec("35")))

	o = c.AddOrMerge(espresso, 1)
	require.Len(t, o.OrderDetails, 2)
	assert.True(t, o.Total.Equal(dec("45")))
	assert.Equal(t, espresso.IDProduct, o.OrderDetails[0].IDProduct)
	assert.Equal(t, 3, o.OrderDetails[0].Quantity)
	assert.True(t, o.OrderDetails[0].Subtotal.Equal(dec("30")))
	assertTotalMatchesLines(t, o)
}

type add struct {
	p domain.Product
	q int
}

func TestCart_AddOrMerge(t *testing.T) {
	tests := []struct {
		name     string
		adds     []add
		lines    int
		total    string
		firstQty int
	}{
		{
			name:     "same product merges",
			adds:     []add{{espresso, 2}, {espresso, 5}},
			lines:    1,
			total:    "70",
			firstQty: 7,
		},
		{
			name:     "distinct products keep add order",
			adds:     []add{{latte, 1}, {espresso, 1}},
			lines:    2,
			total:    "22",
			firstQty: 1,
		},
		{
			name:     "non-positive quantity counts as one",
			adds:     []add{{latte, 0}, {latte, -3}},
			lines:    1,
			total:    "24",
			firstQty: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCart(testSession)
			var o domain.Order
			for _, a := range tt.adds {
				o = c.AddOrMerge(a.p, a.q)
				assertTotalMatchesLines(t, o)
			}
			require.Len(t, o.OrderDetails, tt.lines)
			assert.True(t, o.Total.Equal(dec(tt.total)))
			assert.Equal(t, tt.adds[0].p.IDProduct, o.OrderDetails[0].IDProduct)
			assert.Equal(t, tt.firstQty, o.OrderDetails[0].Quantity)
		})
	}
}

func TestCart_LineKeepsPriceAtAddTime(t *testing.T) {
	c := NewCart(testSession)
	c.AddOrMerge(espresso, 1)

	repriced := espresso
	repriced.Price = dec("99")
	repriced.Name = "Renamed"
	o := c.Order()

	assert.Equal(t, "Café Espresso", o.OrderDetails[0].ProductName)
	assert.True(t, o.OrderDetails[0].Subtotal.Equal(dec("10")))
	assert.False(t, o.OrderDetails[0].IsPaid)
	assert.Zero(t, o.OrderDetails[0].IDOrderDetail)
}

func TestCart_OrderIsACopy(t *testing.T) {
	c := NewCart(testSession)
	o := c.AddOrMerge(espresso, 1)
	o.OrderDetails[0].Quantity = 100

	assert.Equal(t, 1, c.Order().OrderDetails[0].Quantity)
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 3, ParseQuantity("3"))
	assert.Equal(t, 3, ParseQuantity(" 3 "))
	assert.Equal(t, 1, ParseQuantity("0"))
	assert.Equal(t, 1, ParseQuantity("-2"))
	assert.Equal(t, 1, ParseQuantity("dos"))
	assert.Equal(t, 1, ParseQuantity(""))
}

func TestCart_Reset(t *testing.T) {
	c := NewCart(testSession)
	c.AddOrMerge(espresso, 2)
	c.Settle(c.Snapshot(), 17, nil)
	c.AddOrMerge(latte, 1)
	epoch := c.Epoch()

	o := c.Reset()

	assert.Empty(t, o.OrderDetails)
	assert.NotNil(t, o.OrderDetails)
	assert.True(t, o.Total.IsZero())
	assert.Equal(t, 17, o.IDOrder)
	assert.Equal(t, 42, o.IDCustomer)
	assert.Greater(t, c.Epoch(), epoch)
}

func TestCart_RemoveOrder(t *testing.T) {
	c := NewCart(testSession)
	c.AddOrMerge(espresso, 1)
	c.Settle(c.Snapshot(), 9, nil)

	assert.Equal(t, 9, c.RemoveOrder())
	o := c.Order()
	assert.Zero(t, o.IDOrder)
	assert.Empty(t, o.OrderDetails)
	assert.Zero(t, c.RemoveOrder())
}

func TestCart_AddOrMergeInRejectsStaleEpoch(t *testing.T) {
	c := NewCart(testSession)
	epoch := c.Epoch()
	c.Reset()

	o, err := c.AddOrMergeIn(epoch, espresso, 1)
	assert.ErrorIs(t, err, ErrStaleDraft)
	assert.Empty(t, o.OrderDetails)

	o, err = c.AddOrMergeIn(c.Epoch(), espresso, 1)
	require.NoError(t, err)
	assert.Len(t, o.OrderDetails, 1)
}

func TestCart_Settle(t *testing.T) {
	t.Run("unchanged draft is emptied", func(t *testing.T) {
		c := NewCart(testSession)
		c.AddOrMerge(espresso, 2)
		snap := c.Snapshot()

		c.Settle(snap, 5, snap.Order.OrderDetails)

		o := c.Order()
		assert.Equal(t, 5, o.IDOrder)
		assert.Empty(t, o.OrderDetails)
		assert.True(t, o.Total.IsZero())
	})

	t.Run("lines added meanwhile stay", func(t *testing.T) {
		c := NewCart(testSession)
		c.AddOrMerge(espresso, 2)
		snap := c.Snapshot()
		c.AddOrMerge(espresso, 1)
		c.AddOrMerge(latte, 1)

		c.Settle(snap, 5, snap.Order.OrderDetails)

		o := c.Order()
		require.Len(t, o.OrderDetails, 2)
		assert.Equal(t, 1, o.OrderDetails[0].Quantity)
		assert.True(t, o.OrderDetails[0].Subtotal.Equal(dec("10")))
		assert.Equal(t, 5, o.OrderDetails[1].IDOrder)
		assert.True(t, o.Total.Equal(dec("22")))
		assertTotalMatchesLines(t, o)
	})

	t.Run("partial acceptance keeps the rest", func(t *testing.T) {
		c := NewCart(testSession)
		c.AddOrMerge(espresso, 1)
		c.AddOrMerge(cappuccino, 1)
		snap := c.Snapshot()

		c.Settle(snap, 5, snap.Order.OrderDetails[:1])

		o := c.Order()
		require.Len(t, o.OrderDetails, 1)
		assert.Equal(t, cappuccino.IDProduct, o.OrderDetails[0].IDProduct)
		assert.True(t, o.Total.Equal(dec("15")))
	})

	t.Run("reset after snapshot wins", func(t *testing.T) {
		c := NewCart(testSession)
		c.AddOrMerge(espresso, 1)
		snap := c.Snapshot()
		c.Reset()
		c.AddOrMerge(latte, 1)

		c.Settle(snap, 5, snap.Order.OrderDetails)

		o := c.Order()
		assert.Zero(t, o.IDOrder)
		require.Len(t, o.OrderDetails, 1)
		assert.Equal(t, latte.IDProduct, o.OrderDetails[0].IDProduct)
	})
}

func TestCart_ConcurrentAdds(t *testing.T) {
	c := NewCart(testSession)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				c.AddOrMerge(espresso, 1)
			} else {
				c.AddOrMerge(cappuccino, 2)
			}
		}(i)
	}
	wg.Wait()

	o := c.Order()
	require.Len(t, o.OrderDetails, 2)
	assert.True(t, o.Total.Equal(dec("1000")))
	assertTotalMatchesLines(t, o)
}
