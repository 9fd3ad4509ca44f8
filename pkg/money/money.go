package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	NGN Currency = "NGN"
	USD Currency = "USD"
)

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	return c == NGN || c == USD
}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid currency: %s", s)
	}
	return c, nil
}

// Money holds an amount in minor units (kobo for NGN, cents for USD).
type Money struct {
	Amount   int64    `json:"amount"`
	Currency Currency `json:"currency"`
}

func NewMoney(amount int64, currency Currency) Money {
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Decimal().StringFixed(2))
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("cannot add different currencies: %s + %s", m.Currency, other.Currency)
	}
	return NewMoney(m.Amount+other.Amount, m.Currency), nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("cannot subtract different currencies: %s - %s", m.Currency, other.Currency)
	}
	if m.Amount < other.Amount {
		return Money{}, fmt.Errorf("insufficient funds: %d < %d", m.Amount, other.Amount)
	}
	return NewMoney(m.Amount-other.Amount, m.Currency), nil
}

func (m Money) GreaterThan(other Money) bool {
	return m.Currency == other.Currency && m.Amount > other.Amount
}

func (m Money) IsPositive() bool {
	return m.Amount > 0
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Money) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(bytes, m)
}

// Decimal returns the amount in major units with full precision.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -2)
}

// FromDecimal converts a major-unit decimal amount into minor units,
// rounding half-up at the second decimal place. Intermediate currency
// math should stay in decimal and round only here, at the boundary.
func FromDecimal(d decimal.Decimal, currency Currency) Money {
	minor := d.Shift(2).Round(0)
	return NewMoney(minor.IntPart(), currency)
}

func FromMajorUnits(amount float64, currency Currency) Money {
	return FromDecimal(decimal.NewFromFloat(amount), currency)
}

func ToMajorUnits(amount int64) float64 {
	return float64(amount) / 100.0
}
