package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validOrder() *Order {
	return &Order{
		ID:        1,
		Symbol:    "AAPL",
		Side:      SideBuy,
		Type:      TypeLimit,
		Price:     decimal.RequireFromString("150.00"),
		Quantity:  10,
		Status:    StatusNew,
		Timestamp: time.Now(),
	}
}

func TestOrder_Remaining(t *testing.T) {
	o := validOrder()
	assert.Equal(t, int64(10), o.Remaining())
	o.Filled = 4
	assert.Equal(t, int64(6), o.Remaining())
}

func TestOrder_ApplyFillQuantity_StatusTransitions(t *testing.T) {
	o := validOrder()
	o.ApplyFillQuantity(4)
	assert.Equal(t, StatusPartiallyFilled, o.Status)
	assert.Equal(t, int64(4), o.Filled)

	o.ApplyFillQuantity(6)
	assert.Equal(t, StatusFilled, o.Status)
	assert.Equal(t, int64(0), o.Remaining())
}

func TestOrder_IsResting(t *testing.T) {
	o := validOrder()
	assert.True(t, o.IsResting())

	o.ApplyFillQuantity(10)
	assert.False(t, o.IsResting())

	o2 := validOrder()
	o2.Cancel()
	assert.False(t, o2.IsResting())
}

func TestOrder_Reject(t *testing.T) {
	o := validOrder()
	o.Reject("risk limit exceeded")
	assert.Equal(t, StatusRejected, o.Status)
	assert.Equal(t, "risk limit exceeded", o.Reason)
}

func TestOrder_Cancel_DoesNotOverrideFilled(t *testing.T) {
	o := validOrder()
	o.ApplyFillQuantity(10)
	o.Cancel()
	assert.Equal(t, StatusFilled, o.Status)
}

func TestSide_SignAndOpposite(t *testing.T) {
	assert.Equal(t, int64(1), SideBuy.Sign())
	assert.Equal(t, int64(-1), SideSell.Sign())
	assert.Equal(t, SideSell, SideBuy.Opposite())
	assert.Equal(t, SideBuy, SideSell.Opposite())
}

func TestValidate_RejectsZeroID(t *testing.T) {
	o := validOrder()
	o.ID = 0
	assert.Error(t, Validate(o))
}

func TestValidate_RejectsNonPositiveQuantity(t *testing.T) {
	o := validOrder()
	o.Quantity = 0
	assert.Error(t, Validate(o))
}

func TestValidate_RejectsNegativePrice(t *testing.T) {
	o := validOrder()
	o.Price = decimal.RequireFromString("-1.00")
	assert.Error(t, Validate(o))
}

func TestValidate_AcceptsZeroPriceForMarket(t *testing.T) {
	o := validOrder()
	o.Type = TypeMarket
	o.Price = decimal.Zero
	assert.NoError(t, Validate(o))
}

func TestValidate_RejectsUnknownSideOrType(t *testing.T) {
	o := validOrder()
	o.Side = "SIDEWAYS"
	assert.Error(t, Validate(o))

	o2 := validOrder()
	o2.Type = "STOP"
	assert.Error(t, Validate(o2))
}

func TestValidate_NilOrder(t *testing.T) {
	assert.Error(t, Validate(nil))
}
