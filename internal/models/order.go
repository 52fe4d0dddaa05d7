package models

import "github.com/shopspring/decimal"

// Order is a sale order header with its lines.
type Order struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	CustomerLabel string          `json:"customer_label"`
	Status        string          `json:"status"`
	OrderDate     string          `json:"order_date"` // server format, not reparsed
	Total         decimal.Decimal `json:"total"`
	Lines         []OrderLine     `json:"lines"`
}

// OrderLine is one sale order line.
type OrderLine struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderStatus labels for the sale.order state selection.
var OrderStatus = map[string]string{
	"draft":  "Quotation",
	"sent":   "Quotation Sent",
	"sale":   "Sales Order",
	"done":   "Locked",
	"cancel": "Cancelled",
}
