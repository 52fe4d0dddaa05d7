package odoo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"odoodesk/internal/models"
)

const (
	orderModel     = "sale.order"
	orderLineModel = "sale.order.line"
	orderLineLimit = 200
)

var (
	orderFields     = []string{"id", "name", "partner_id", "date_order", "state", "amount_total"}
	orderLineFields = []string{"product_id", "product_uom_qty", "price_unit", "price_subtotal"}
)

// ReadOrder loads an order header and its lines.
func (c *Client) ReadOrder(ctx context.Context, s *Session, orderID int64) (*models.Order, error) {
	rows, err := c.SearchRead(ctx, s, orderModel, Eq("id", orderID), orderFields, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &NotFoundError{Model: orderModel, Criteria: fmt.Sprintf("id = %d", orderID)}
	}
	order := orderFromRow(rows[0], orderID)

	lines, err := c.SearchRead(ctx, s, orderLineModel, Eq("order_id", orderID), orderLineFields, orderLineLimit)
	if err != nil {
		return nil, err
	}
	order.Lines = make([]models.OrderLine, 0, len(lines))
	for _, line := range lines {
		order.Lines = append(order.Lines, orderLineFromRow(line))
	}
	return order, nil
}

func orderFromRow(row gjson.Result, fallbackID int64) *models.Order {
	id, ok := IntegerOf(row.Get("id"))
	if !ok {
		id = fallbackID
	}
	return &models.Order{
		ID:            id,
		Name:          StringOf(row.Get("name")),
		CustomerLabel: LabelOf(row.Get("partner_id")),
		Status:        StringOf(row.Get("state")),
		OrderDate:     StringOf(row.Get("date_order")),
		Total:         decimalOrZero(row.Get("amount_total")),
	}
}

func orderLineFromRow(row gjson.Result) models.OrderLine {
	return models.OrderLine{
		ProductName: LabelOf(row.Get("product_id")),
		Quantity:    decimalOrZero(row.Get("product_uom_qty")),
		UnitPrice:   decimalOrZero(row.Get("price_unit")),
		Subtotal:    decimalOrZero(row.Get("price_subtotal")),
	}
}

// CreateOrder creates a draft sale order for partnerID and returns its id.
func (c *Client) CreateOrder(ctx context.Context, s *Session, partnerID int64) (int64, error) {
	return c.Create(ctx, s, orderModel, map[string]any{
		"partner_id": partnerID,
	})
}

// CreateOrderLine adds quantity units of productID to orderID.
func (c *Client) CreateOrderLine(ctx context.Context, s *Session, orderID, productID int64, quantity decimal.Decimal) (int64, error) {
	return c.Create(ctx, s, orderLineModel, map[string]any{
		"order_id":        orderID,
		"product_id":      productID,
		"product_uom_qty": json.Number(quantity.String()),
	})
}

// PlacedOrder is the outcome of PlaceOrder.
type PlacedOrder struct {
	OrderID int64
	LineID  int64
}

// PlaceOrder resolves the customer, creates an order and adds one line.
// Each step depends on the previous one, so the first failure stops the
// sequence.
func (c *Client) PlaceOrder(ctx context.Context, s *Session, partnerName string, productID int64, quantity decimal.Decimal) (*PlacedOrder, error) {
	if productID <= 0 {
		return nil, &ValidationError{Field: "productId", Message: "a product must be selected"}
	}
	if !quantity.IsPositive() {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
	}

	partnerID, err := c.ResolvePartnerByName(ctx, s, partnerName)
	if err != nil {
		return nil, err
	}
	orderID, err := c.CreateOrder(ctx, s, partnerID)
	if err != nil {
		return nil, err
	}
	lineID, err := c.CreateOrderLine(ctx, s, orderID, productID, quantity)
	if err != nil {
		return nil, err
	}
	return &PlacedOrder{OrderID: orderID, LineID: lineID}, nil
}
