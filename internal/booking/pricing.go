package booking

import (
	"github.com/shopspring/decimal"
)

var (
	// ServiceFeeRate is the flat surcharge applied on top of the day-rate subtotal.
	ServiceFeeRate = decimal.RequireFromString("0.10")

	// PriceTolerance is how far a submitted total may drift from the expected one.
	PriceTolerance = decimal.NewFromInt(1)
)

// Quote is the price breakdown of a date range on one boat.
type Quote struct {
	Days       int
	DayRate    decimal.Decimal
	Subtotal   decimal.Decimal
	ServiceFee decimal.Decimal
	Total      decimal.Decimal
}

// ComputeQuote prices r at dayRate.
func ComputeQuote(dayRate decimal.Decimal, r DateRange) Quote {
	days := r.Days()
	subtotal := dayRate.Mul(decimal.NewFromInt(int64(days)))
	fee := subtotal.Mul(ServiceFeeRate)
	return Quote{
		Days:       days,
		DayRate:    dayRate,
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      subtotal.Add(fee),
	}
}

// ComputeExpectedTotal returns the total a renter must pay for r at dayRate.
func ComputeExpectedTotal(dayRate decimal.Decimal, r DateRange) decimal.Decimal {
	return ComputeQuote(dayRate, r).Total
}

// ValidateSubmittedTotal accepts submitted when it is within PriceTolerance of
// the expected total and returns a *PriceMismatchError otherwise.
func ValidateSubmittedTotal(dayRate decimal.Decimal, r DateRange, submitted decimal.Decimal) error {
	expected := ComputeExpectedTotal(dayRate, r)
	if submitted.Sub(expected).Abs().GreaterThan(PriceTolerance) {
		return &PriceMismatchError{Expected: expected, Submitted: submitted}
	}
	return nil
}
