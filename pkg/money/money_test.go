package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Currency
		wantErr  bool
	}{
		{"valid NGN", "NGN", NGN, false},
		{"valid USD", "USD", USD, false},
		{"invalid currency", "EUR", "", true},
		{"empty string", "", "", true},
		{"lowercase", "ngn", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseCurrency(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestMoney_Add(t *testing.T) {
	tests := []struct {
		name     string
		a        Money
		b        Money
		expected Money
		wantErr  bool
	}{
		{"same currency", NewMoney(1000, NGN), NewMoney(500, NGN), NewMoney(1500, NGN), false},
		{"zero amount", NewMoney(1000, USD), NewMoney(0, USD), NewMoney(1000, USD), false},
		{"different currencies", NewMoney(1000, NGN), NewMoney(500, USD), Money{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.a.Add(tt.b)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestMoney_Subtract(t *testing.T) {
	tests := []struct {
		name     string
		a        Money
		b        Money
		expected Money
		wantErr  bool
	}{
		{"sufficient funds", NewMoney(1000, NGN), NewMoney(400, NGN), NewMoney(600, NGN), false},
		{"exact amount", NewMoney(1000, NGN), NewMoney(1000, NGN), NewMoney(0, NGN), false},
		{"insufficient funds", NewMoney(100, NGN), NewMoney(200, NGN), Money{}, true},
		{"different currencies", NewMoney(1000, NGN), NewMoney(500, USD), Money{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.a.Subtract(tt.b)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestMoney_GreaterThan(t *testing.T) {
	assert.True(t, NewMoney(200, NGN).GreaterThan(NewMoney(100, NGN)))
	assert.False(t, NewMoney(100, NGN).GreaterThan(NewMoney(100, NGN)))
	assert.False(t, NewMoney(200, NGN).GreaterThan(NewMoney(100, USD)))
}

func TestFromDecimal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"whole number", "100", 10000},
		{"two decimal places", "99.99", 9999},
		{"rounds half up", "0.005", 1},
		{"rounds down below half", "0.004", 0},
		{"many decimal places", "3.56789", 357},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.input)
			require.NoError(t, err)
			result := FromDecimal(d, NGN)
			assert.Equal(t, tt.expected, result.Amount)
			assert.Equal(t, NGN, result.Currency)
		})
	}
}

func TestDecimal_RoundTrip(t *testing.T) {
	// Minor units survive the trip through decimal and back.
	m := NewMoney(123456, USD)
	assert.Equal(t, m, FromDecimal(m.Decimal(), USD))
	assert.Equal(t, "1234.56", m.Decimal().StringFixed(2))
}

func TestMajorUnits(t *testing.T) {
	assert.Equal(t, int64(250075), FromMajorUnits(2500.75, NGN).Amount)
	assert.Equal(t, 2500.75, ToMajorUnits(250075))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "NGN 1500.00", NewMoney(150000, NGN).String())
	assert.Equal(t, "USD 0.50", NewMoney(50, USD).String())
}
