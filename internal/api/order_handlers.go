package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"odoodesk/internal/auth"
	"odoodesk/internal/logging"
	"odoodesk/internal/odoo"
	"odoodesk/internal/templates"
	"odoodesk/internal/views"
)

type createOrderForm struct {
	auth.Credentials
	ProductID string `form:"productId"`
	Quantity  string `form:"quantity"`
}

type orderForm struct {
	auth.Credentials
	OrderID string `form:"orderId" query:"orderId"`
}

// createOrderHandler handles POST /orders: place an order for one product
// and redisplay the catalog.
func (h *Handlers) createOrderHandler(c echo.Context) error {
	var form createOrderForm
	if err := c.Bind(&form); err != nil {
		return h.renderFailure(c, h.newPage(c, h.defaults), "create order",
			&odoo.ValidationError{Message: "invalid form submission"})
	}
	page := h.newPage(c, form.Credentials)

	logging.FromContext(h.log, c).
		WithField("product_id", form.ProductID).
		WithField("quantity", form.Quantity).
		Info("create order received")

	productID, err := parseID("productId", form.ProductID)
	if err != nil {
		return h.renderFailure(c, page, "create order", err)
	}
	quantity, err := decimal.NewFromString(strings.TrimSpace(form.Quantity))
	if err != nil {
		return h.renderFailure(c, page, "create order",
			&odoo.ValidationError{Field: "quantity", Message: "quantity must be a number"})
	}

	ctx := c.Request().Context()
	client, session, err := h.auth.Login(ctx, form.Credentials)
	if err != nil {
		return h.renderFailure(c, page, "create order", err)
	}
	defer client.Close()

	placed, err := client.PlaceOrder(ctx, session, h.partnerName, productID, quantity)
	if err != nil {
		return h.renderFailure(c, page, "create order", err)
	}

	products, err := client.ListProducts(ctx, session)
	if err != nil {
		return h.renderFailure(c, page, "create order", err)
	}

	page.Success = true
	page.Message = fmt.Sprintf("Order created (order_id = %d) for product_id = %d.", placed.OrderID, productID)
	page.Products = views.Products(products)
	page.CreatedOrderID = placed.OrderID
	return c.Render(http.StatusOK, templates.PageIndex, page)
}

// orderHandler handles GET and POST /order: show one order with its lines.
func (h *Handlers) orderHandler(c echo.Context) error {
	var form orderForm
	if err := c.Bind(&form); err != nil {
		return h.renderFailure(c, h.newPage(c, h.defaults), "order",
			&odoo.ValidationError{Message: "invalid form submission"})
	}
	page := h.newPage(c, form.Credentials)

	orderID, err := parseID("orderId", form.OrderID)
	if err != nil {
		return h.renderFailure(c, page, "order", err)
	}

	ctx := c.Request().Context()
	client, session, err := h.auth.Login(ctx, form.Credentials)
	if err != nil {
		return h.renderFailure(c, page, "order", err)
	}
	defer client.Close()

	order, err := client.ReadOrder(ctx, session, orderID)
	if err != nil {
		return h.renderFailure(c, page, "order", err)
	}

	view := views.Order(order)
	page.Success = true
	page.Order = &view
	return c.Render(http.StatusOK, templates.PageOrder, page)
}

// parseID parses a positive record id from a form value.
func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, &odoo.ValidationError{Field: field, Message: "must be a positive integer"}
	}
	return id, nil
}
