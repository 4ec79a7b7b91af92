package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/services"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPrice_TenPercentOffEighteenPercentTax(t *testing.T) {
	b := services.Price(d("2000"), d("10"), d("18"))

	assert.True(t, d("200").Equal(b.DiscountAmount))
	assert.True(t, d("1800").Equal(b.TaxableAmount))
	assert.True(t, d("324").Equal(b.TaxAmount))
	assert.True(t, d("2124").Equal(b.Total))
	assert.Equal(t, "2124.00", b.Display().Total)
}

func TestPrice_NoRoundingUntilDisplay(t *testing.T) {
	b := services.Price(d("33.33"), d("12.5"), d("18"))

	assert.Equal(t, "4.16625", b.DiscountAmount.String())
	assert.True(t, b.TaxableAmount.Add(b.TaxAmount).Equal(b.Total))
	assert.Equal(t, "34.41", b.Display().Total)
}

func TestPrice_AdditiveConsistency(t *testing.T) {
	cases := []struct {
		unit     string
		split    []int64
		discount string
		tax      string
	}{
		{"1000", []int64{1, 1}, "10", "18"},
		{"0.10", []int64{1, 2, 3}, "7.5", "5"},
		{"19.99", []int64{4, 9}, "0", "28"},
	}

	for _, tc := range cases {
		var qty int64
		acc := decimal.Zero
		for _, q := range tc.split {
			qty += q
			acc = acc.Add(d(tc.unit).Mul(decimal.NewFromInt(q)))
		}
		whole := services.Price(d(tc.unit).Mul(decimal.NewFromInt(qty)), d(tc.discount), d(tc.tax))
		split := services.Price(acc, d(tc.discount), d(tc.tax))

		assert.True(t, whole.Total.Equal(split.Total), tc.unit)
		assert.True(t, whole.TaxAmount.Equal(split.TaxAmount), tc.unit)
	}
}

func TestValidDiscount(t *testing.T) {
	assert.True(t, services.ValidDiscount(d("0")))
	assert.True(t, services.ValidDiscount(d("100")))
	assert.False(t, services.ValidDiscount(d("100.01")))
	assert.False(t, services.ValidDiscount(d("-1")))
}
