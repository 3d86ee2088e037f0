// Package pricing maps seat categories to prices and decides which
// category a seat falls into when it is booked.
package pricing

import (
	"fmt"

	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

// Table maps each category to its price.  Amounts are plain integers in
// whatever currency unit the deployment uses.
type Table struct {
	prices [3]int64
}

// Default is the reference price list: STANDARD=150, PREMIUM=200, VIP=300.
var Default = NewTable(150, 200, 300)

// NewTable builds a table from the three category prices.
func NewTable(standard, premium, vip int64) Table {
	return Table{prices: [3]int64{standard, premium, vip}}
}

// Price returns the price of category c.  Unknown categories panic since
// categories only ever come from a Policy.
func (t Table) Price(c model.Category) int64 {
	if !c.Valid() {
		panic(fmt.Sprintf("pricing: unknown category %d", c))
	}
	return t.prices[c]
}

// Validate reports the first category whose price is not positive.
func (t Table) Validate() error {
	for _, c := range model.Categories {
		if t.prices[c] <= 0 {
			return fmt.Errorf("pricing: %s price must be positive, got %d", c, t.prices[c])
		}
	}
	return nil
}

// Policy assigns a category from a row index: rows before PremiumFrom
// are STANDARD, rows before VIPFrom are PREMIUM, the rest are VIP.
type Policy struct {
	PremiumFrom int
	VIPFrom     int
}

// DefaultPolicy is rows 0-2 STANDARD, 3-5 PREMIUM, 6 and up VIP.
var DefaultPolicy = Policy{PremiumFrom: 3, VIPFrom: 6}

// CategoryFor returns the category a seat in row gets when booked.
func (p Policy) CategoryFor(row int) model.Category {
	switch {
	case row < p.PremiumFrom:
		return model.CategoryStandard
	case row < p.VIPFrom:
		return model.CategoryPremium
	default:
		return model.CategoryVIP
	}
}
