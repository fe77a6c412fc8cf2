package domain

import "github.com/shopspring/decimal"

// RoundHalfUp rounds f to digits decimal places, with halves rounded away
// from zero.
func RoundHalfUp(f float64, digits int64) float64 {
	rounded, _ := decimal.NewFromFloat(f).Round(int32(digits)).Float64()
	return rounded
}

// Round applies the value's amountOfDigitsAfterComma to its float slots.
// Only float, currency and rangeFloat values are rounded.
func Round(v *Value) {
	if v.AmountOfDigitsAfterComma == nil {
		return
	}
	digits := *v.AmountOfDigitsAfterComma

	switch v.AttributeType {
	case TypeFloat, TypeCurrency:
		if v.FloatValue != nil {
			v.FloatValue = Ptr(RoundHalfUp(*v.FloatValue, digits))
		}
	case TypeRangeFloat:
		if v.FloatValue != nil {
			v.FloatValue = Ptr(RoundHalfUp(*v.FloatValue, digits))
		}
		if v.FloatValue1 != nil {
			v.FloatValue1 = Ptr(RoundHalfUp(*v.FloatValue1, digits))
		}
	}
}
