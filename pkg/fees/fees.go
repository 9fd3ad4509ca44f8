// Package fees computes deposit and conversion fee breakdowns. All
// functions are pure: the same inputs always produce the same breakdown,
// and intermediate values are carried as decimals so rounding happens
// once, when the result is converted back to minor units.
package fees

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/adesokan/walletcore/pkg/money"
)

type Direction string

const (
	NGNToUSD Direction = "ngn_to_usd"
	USDToNGN Direction = "usd_to_ngn"
)

var (
	depositPercentage = decimal.NewFromFloat(0.025)
	depositFixedNGN   = decimal.NewFromInt(100)
	depositCapNGN     = decimal.NewFromInt(2500)

	conversionPercentage = decimal.NewFromFloat(0.019)
	conversionFixedUSD   = decimal.NewFromFloat(0.5)

	// MinConversionNetUSD is the smallest post-fee amount a conversion
	// may produce.
	MinConversionNetUSD = money.FromMajorUnits(3, money.USD)
)

// FeeBreakdown is an immutable snapshot of the fees applied to a gross
// amount. Percentage, Fixed and Total are denominated in the fee
// currency; Net is denominated in the currency being credited.
type FeeBreakdown struct {
	Percentage money.Money `json:"percentageFee"`
	Fixed      money.Money `json:"fixedFee"`
	Total      money.Money `json:"totalFee"`
	Net        money.Money `json:"netAmount"`
}

// ComputeDepositFee derives the breakdown for a naira bank-transfer
// deposit: 2.5% plus a flat ₦100, capped at ₦2500 total, net floored
// at zero.
func ComputeDepositFee(gross money.Money) (FeeBreakdown, error) {
	if gross.Currency != money.NGN {
		return FeeBreakdown{}, fmt.Errorf("deposit gross must be NGN, got %s", gross.Currency)
	}
	if gross.Amount < 0 {
		return FeeBreakdown{}, fmt.Errorf("deposit gross must not be negative")
	}

	grossDec := gross.Decimal()
	percentage := grossDec.Mul(depositPercentage)
	total := decimal.Min(depositCapNGN, percentage.Add(depositFixedNGN))
	net := decimal.Max(decimal.Zero, grossDec.Sub(total))

	return FeeBreakdown{
		Percentage: money.FromDecimal(percentage, money.NGN),
		Fixed:      money.FromDecimal(depositFixedNGN, money.NGN),
		Total:      money.FromDecimal(total, money.NGN),
		Net:        money.FromDecimal(net, money.NGN),
	}, nil
}

// ComputeConversionFee derives the breakdown for an NGN⇄USD conversion.
// Fees are always assessed on the USD side: converting NGN to USD first
// moves the gross to USD at the given rate, converting USD to NGN fees
// the USD gross directly and moves only the net across. The rate is
// local currency per 1 USD and must be positive.
func ComputeConversionFee(gross money.Money, rate decimal.Decimal, direction Direction) (FeeBreakdown, error) {
	if !rate.IsPositive() {
		return FeeBreakdown{}, fmt.Errorf("exchange rate must be positive, got %s", rate)
	}
	if gross.Amount < 0 {
		return FeeBreakdown{}, fmt.Errorf("conversion gross must not be negative")
	}

	switch direction {
	case NGNToUSD:
		if gross.Currency != money.NGN {
			return FeeBreakdown{}, fmt.Errorf("gross must be NGN for %s, got %s", direction, gross.Currency)
		}
		usdGross := gross.Decimal().Div(rate)
		percentage := usdGross.Mul(conversionPercentage)
		total := percentage.Add(conversionFixedUSD)
		net := decimal.Max(decimal.Zero, usdGross.Sub(total))

		return FeeBreakdown{
			Percentage: money.FromDecimal(percentage, money.USD),
			Fixed:      money.FromDecimal(conversionFixedUSD, money.USD),
			Total:      money.FromDecimal(total, money.USD),
			Net:        money.FromDecimal(net, money.USD),
		}, nil

	case USDToNGN:
		if gross.Currency != money.USD {
			return FeeBreakdown{}, fmt.Errorf("gross must be USD for %s, got %s", direction, gross.Currency)
		}
		usdGross := gross.Decimal()
		percentage := usdGross.Mul(conversionPercentage)
		total := percentage.Add(conversionFixedUSD)
		netUSD := decimal.Max(decimal.Zero, usdGross.Sub(total))
		netNGN := netUSD.Mul(rate)

		return FeeBreakdown{
			Percentage: money.FromDecimal(percentage, money.USD),
			Fixed:      money.FromDecimal(conversionFixedUSD, money.USD),
			Total:      money.FromDecimal(total, money.USD),
			Net:        money.FromDecimal(netNGN, money.NGN),
		}, nil

	default:
		return FeeBreakdown{}, fmt.Errorf("unknown conversion direction: %s", direction)
	}
}

// MeetsConversionMinimum reports whether a conversion breakdown clears
// the minimum post-fee amount, measured on the USD side.
func MeetsConversionMinimum(b FeeBreakdown, direction Direction, rate decimal.Decimal) bool {
	switch direction {
	case NGNToUSD:
		return b.Net.Amount >= MinConversionNetUSD.Amount
	case USDToNGN:
		if !rate.IsPositive() {
			return false
		}
		netUSD := b.Net.Decimal().Div(rate)
		return !netUSD.LessThan(MinConversionNetUSD.Decimal())
	default:
		return false
	}
}
