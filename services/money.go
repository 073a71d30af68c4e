package services

import "math"

// RoundCents rounds a monetary value to two decimals. Every delta
// applied to an order total goes through this first, so repeated
// add/remove cycles cannot accumulate binary rounding error beyond a
// cent.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// LineTotal is the cent-rounded qty*price contribution of one item.
func LineTotal(qty int, price float64) float64 {
	return RoundCents(float64(qty) * price)
}
