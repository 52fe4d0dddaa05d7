// Package views turns domain records into the flat, preformatted rows the
// HTML templates render.
package views

import (
	"strconv"

	"github.com/shopspring/decimal"

	"odoodesk/internal/models"
)

// ProductRow is one line of the catalog table.
type ProductRow struct {
	ID                int64
	Name              string
	Kind              string
	Code              string
	Category          string
	ListPrice         string
	QuantityAvailable string

	MaxGuests       int
	Beds            int
	Bedrooms        int
	Bathrooms       int
	Pool            string
	AirConditioning string

	// IsRental is set when any rental attribute is filled in.
	IsRental bool
}

// OrderLineRow is one line of the order detail table.
type OrderLineRow struct {
	ProductName string
	Quantity    string
	UnitPrice   string
	Subtotal    string
}

// OrderPage is everything the order template shows.
type OrderPage struct {
	ID       int64
	Name     string
	Customer string
	Status   string
	Date     string
	Total    string
	Lines    []OrderLineRow
}

// Products converts products into rows, keeping their order.
func Products(products []models.Product) []ProductRow {
	rows := make([]ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, ProductRow{
			ID:                p.ID,
			Name:              p.Name,
			Kind:              p.Kind,
			Code:              p.Code,
			Category:          p.CategoryLabel,
			ListPrice:         Amount(p.ListPrice),
			QuantityAvailable: Quantity(p.QuantityAvailable),
			MaxGuests:         p.MaxGuests,
			Beds:              p.Beds,
			Bedrooms:          p.Bedrooms,
			Bathrooms:         p.Bathrooms,
			Pool:              YesNo(p.PoolAvailable),
			AirConditioning:   YesNo(p.AirConditioningAvailable),
			IsRental:          p.MaxGuests > 0 || p.Beds > 0 || p.Bedrooms > 0 || p.Bathrooms > 0,
		})
	}
	return rows
}

// Order converts an order and its lines into an OrderPage.
func Order(o *models.Order) OrderPage {
	page := OrderPage{
		ID:       o.ID,
		Name:     o.Name,
		Customer: o.CustomerLabel,
		Status:   Status(o.Status),
		Date:     o.OrderDate,
		Total:    Amount(o.Total),
		Lines:    make([]OrderLineRow, 0, len(o.Lines)),
	}
	if page.Name == "" {
		page.Name = "#" + strconv.FormatInt(o.ID, 10)
	}
	for _, l := range o.Lines {
		page.Lines = append(page.Lines, OrderLineRow{
			ProductName: l.ProductName,
			Quantity:    Quantity(l.Quantity),
			UnitPrice:   Amount(l.UnitPrice),
			Subtotal:    Amount(l.Subtotal),
		})
	}
	return page
}

// Amount formats a monetary value with two decimals.
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Quantity formats a quantity without trailing zeros.
func Quantity(d decimal.Decimal) string {
	return d.String()
}

// YesNo renders a boolean flag.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Status maps a sale.order state to its display label, falling back to the
// raw state for values the map does not know.
func Status(state string) string {
	if label, ok := models.OrderStatus[state]; ok {
		return label
	}
	return state
}
