package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/infra"
	"storefront/internal/mocks"
)

func TestSummarize(t *testing.T) {
	c := NewCart(testSession)
	c.AddOrMerge(espresso, 2)
	c.AddOrMerge(latte, 1)

	s := Summarize(c.Order())
	assert.Equal(t, 2, s.Lines)
	assert.True(t, s.Total.Equal(dec("32")))
}

func TestToPersisted(t *testing.T) {
	c := NewCart(Session{})
	c.AddOrMerge(espresso, 1)
	c.Settle(c.Snapshot(), 8, nil)

	o := ToPersisted(c.Order(), testSession)
	assert.Equal(t, 42, o.IDCustomer)
	assert.Equal(t, "Ana", o.CustomerName)
	assert.Equal(t, 8, o.OrderDetails[0].IDOrder)
}

func TestMergeView(t *testing.T) {
	header := domain.Order{IDOrder: 3, Total: dec("999")}
	details := []domain.OrderDetail{
		{IDProduct: 1, Quantity: 1, Subtotal: dec("10")},
		{IDProduct: 2, Quantity: 2, Subtotal: dec("30"), IDOrder: 3},
	}

	o := MergeView(header, details)
	require.Len(t, o.OrderDetails, 2)
	assert.Equal(t, 3, o.OrderDetails[0].IDOrder)
	assert.True(t, o.Total.Equal(dec("40")))

	bare := MergeView(header, nil)
	assert.True(t, bare.Total.Equal(dec("999")))
	assert.Empty(t, bare.OrderDetails)
}

func TestReconciler_FetchOrderView(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(*mocks.MockOrderLedger)
		expectedErr error
		notices     int
	}{
		{
			name: "loaded",
			setupMocks: func(l *mocks.MockOrderLedger) {
				l.On("GetOrder", mock.Anything, 5).Return(&domain.Order{IDOrder: 5, Total: dec("20")}, nil)
			},
		},
		{
			name: "not found",
			setupMocks: func(l *mocks.MockOrderLedger) {
				l.On("GetOrder", mock.Anything, 5).Return(nil, infra.ErrOrderNotFound)
			},
			expectedErr: infra.ErrOrderNotFound,
			notices:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := new(mocks.MockOrderLedger)
			tt.setupMocks(ledger)
			rec := &recorder{}

			o, err := NewReconciler(ledger, rec).FetchOrderView(context.Background(), 5)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 5, o.IDOrder)
			}
			assert.Equal(t, tt.notices, rec.count())
		})
	}
}

func TestReconciler_FetchCustomerOrders(t *testing.T) {
	ledger := new(mocks.MockOrderLedger)
	ledger.On("GetOrdersByCustomer", mock.Anything, 42).Return([]domain.Order{{IDOrder: 1}, {IDOrder: 2}}, nil)
	ledger.On("GetOrdersByCustomer", mock.Anything, 43).Return(nil, errors.New("dial tcp: refused"))
	rec := &recorder{}
	r := NewReconciler(ledger, rec)

	assert.Len(t, r.FetchCustomerOrders(context.Background(), 42), 2)
	assert.Equal(t, 0, rec.count())

	got := r.FetchCustomerOrders(context.Background(), 43)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, rec.count())
}

func TestReconciler_SubmitNewOrder(t *testing.T) {
	ledger := new(mocks.MockOrderLedger)
	ledger.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o domain.Order) bool {
		return o.IDOrder == 0 && o.IDCustomer == 42 && len(o.OrderDetails) == 2 && o.Total.Equal(dec("35"))
	})).Return(&domain.Order{IDOrder: 11, IDCustomer: 42, Total: dec("35")}, nil)

	c := NewCart(testSession)
	c.AddOrMerge(espresso, 2)
	c.AddOrMerge(cappuccino, 1)

	o, err := NewReconciler(ledger, &recorder{}).Submit(context.Background(), c, testSession)
	require.NoError(t, err)
	assert.Equal(t, 11, o.IDOrder)

	draft := c.Order()
	assert.Equal(t, 11, draft.IDOrder)
	assert.Empty(t, draft.OrderDetails)
	assert.True(t, draft.Total.IsZero())
	ledger.AssertExpectations(t)
}

func TestReconciler_SubmitAppendsToPersistedOrder(t *testing.T) {
	stored := &domain.Order{IDOrder: 11, IDCustomer: 42, Total: dec("44"), OrderDetails: []domain.OrderDetail{
		{IDOrderDetail: 101, IDOrder: 11, IDProduct: 1, Quantity: 1, Subtotal: dec("10")},
		{IDOrderDetail: 103, IDOrder: 11, IDProduct: 3, Quantity: 2, Subtotal: dec("24")},
		{IDOrderDetail: 104, IDOrder: 11, IDProduct: 1, Quantity: 1, Subtotal: dec("10")},
	}}

	tests := []struct {
		name       string
		refetch    *domain.Order
		refetchErr error
		lines      int
		total      decimal.Decimal
	}{
		{name: "answers with the ledger order", refetch: stored, lines: 3, total: dec("44")},
		{name: "falls back to the appended lines", refetchErr: errors.New("timeout"), lines: 2, total: dec("34")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := new(mocks.MockOrderLedger)
			for _, p := range []domain.Product{latte, espresso} {
				subtotal := dec("24")
				if p.IDProduct == espresso.IDProduct {
					subtotal = dec("10")
				}
				ledger.On("CreateOrderDetail", mock.Anything, mock.MatchedBy(func(o domain.Order) bool {
					return o.IDOrder == 11 && len(o.OrderDetails) == 1 && o.OrderDetails[0].IDProduct == p.IDProduct
				})).Return(&domain.OrderDetail{IDOrderDetail: 100 + p.IDProduct, IDOrder: 11, IDProduct: p.IDProduct, Subtotal: subtotal}, nil)
			}
			if tt.refetch != nil {
				ledger.On("GetOrder", mock.Anything, 11).Return(tt.refetch, nil)
			} else {
				ledger.On("GetOrder", mock.Anything, 11).Return(nil, tt.refetchErr)
			}

			c := NewCart(testSession)
			c.AddOrMerge(espresso, 1)
			c.Settle(c.Snapshot(), 11, c.Snapshot().Order.OrderDetails)
			c.AddOrMerge(latte, 2)
			c.AddOrMerge(espresso, 1)

			o, err := NewReconciler(ledger, &recorder{}).Submit(context.Background(), c, testSession)
			require.NoError(t, err)
			assert.Equal(t, 11, o.IDOrder)
			require.Len(t, o.OrderDetails, tt.lines)
			assert.True(t, tt.total.Equal(o.Total), "total %s", o.Total)
			assert.Empty(t, c.Order().OrderDetails)
			ledger.AssertNumberOfCalls(t, "CreateOrderDetail", 2)
		})
	}
}

func TestReconciler_SubmitPartialFailure(t *testing.T) {
	ledger := new(mocks.MockOrderLedger)
	ledger.On("CreateOrderDetail", mock.Anything, mock.MatchedBy(func(o domain.Order) bool {
		return o.OrderDetails[0].IDProduct == latte.IDProduct
	})).Return(&domain.OrderDetail{IDOrderDetail: 1, IDOrder: 11, IDProduct: latte.IDProduct, Quantity: 1}, nil)
	ledger.On("CreateOrderDetail", mock.Anything, mock.MatchedBy(func(o domain.Order) bool {
		return o.OrderDetails[0].IDProduct == espresso.IDProduct
	})).Return(nil, errors.New("timeout"))

	c := NewCart(testSession)
	c.AddOrMerge(latte, 1)
	c.Settle(c.Snapshot(), 11, nil)
	c.AddOrMerge(espresso, 3)
	rec := &recorder{}

	_, err := NewReconciler(ledger, rec).Submit(context.Background(), c, testSession)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.Equal(t, 1, rec.count())

	draft := c.Order()
	require.Len(t, draft.OrderDetails, 1)
	assert.Equal(t, espresso.IDProduct, draft.OrderDetails[0].IDProduct)
	assert.Equal(t, 3, draft.OrderDetails[0].Quantity)
	assert.True(t, draft.Total.Equal(dec("30")))
}

func TestReconciler_SubmitFailureKeepsDraft(t *testing.T) {
	ledger := new(mocks.MockOrderLedger)
	ledger.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, errors.New("503"))

	c := NewCart(testSession)
	c.AddOrMerge(espresso, 2)
	rec := &recorder{}

	_, err := NewReconciler(ledger, rec).Submit(context.Background(), c, testSession)
	require.Error(t, err)
	assert.Equal(t, 1, rec.count())
	assert.Len(t, c.Order().OrderDetails, 1)
	assert.Zero(t, c.Order().IDOrder)
}

func TestReconciler_SubmitEmptyDraft(t *testing.T) {
	ledger := new(mocks.MockOrderLedger)
	_, err := NewReconciler(ledger, &recorder{}).Submit(context.Background(), NewCart(testSession), testSession)

	assert.ErrorIs(t, err, ErrEmptyDraft)
	ledger.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestReconciler_DropDraft(t *testing.T) {
	t.Run("never persisted", func(t *testing.T) {
		ledger := new(mocks.MockOrderLedger)
		c := NewCart(testSession)
		c.AddOrMerge(espresso, 1)

		assert.False(t, NewReconciler(ledger, &recorder{}).DropDraft(context.Background(), c))
		assert.Empty(t, c.Order().OrderDetails)
		ledger.AssertNotCalled(t, "DeleteOrder", mock.Anything, mock.Anything)
	})

	t.Run("persisted draft is deleted", func(t *testing.T) {
		ledger := new(mocks.MockOrderLedger)
		ledger.On("DeleteOrder", mock.Anything, 11).Return(nil)
		c := NewCart(testSession)
		c.AddOrMerge(espresso, 1)
		c.Settle(c.Snapshot(), 11, nil)

		assert.True(t, NewReconciler(ledger, &recorder{}).DropDraft(context.Background(), c))
		assert.Zero(t, c.Order().IDOrder)
		ledger.AssertExpectations(t)
	})

	t.Run("delete failure notifies", func(t *testing.T) {
		ledger := new(mocks.MockOrderLedger)
		ledger.On("DeleteOrder", mock.Anything, 11).Return(errors.New("refused"))
		c := NewCart(testSession)
		c.AddOrMerge(espresso, 1)
		c.Settle(c.Snapshot(), 11, nil)
		rec := &recorder{}

		assert.False(t, NewReconciler(ledger, rec).DropDraft(context.Background(), c))
		assert.Equal(t, 1, rec.count())
		assert.Zero(t, c.Order().IDOrder)
	})
}
