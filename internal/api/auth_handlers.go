package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"odoodesk/internal/auth"
	"odoodesk/internal/odoo"
	"odoodesk/internal/templates"
	"odoodesk/internal/views"
)

// connectHandler handles POST /connect: authenticate, then list products.
func (h *Handlers) connectHandler(c echo.Context) error {
	var creds auth.Credentials
	if err := c.Bind(&creds); err != nil {
		return h.renderFailure(c, h.newPage(c, h.defaults), "connect",
			&odoo.ValidationError{Message: "invalid form submission"})
	}
	page := h.newPage(c, creds)

	ctx := c.Request().Context()
	client, session, err := h.auth.Login(ctx, creds)
	if err != nil {
		return h.renderFailure(c, page, "connect", err)
	}
	defer client.Close()

	products, err := client.ListProducts(ctx, session)
	if err != nil {
		return h.renderFailure(c, page, "connect", err)
	}

	page.Success = true
	page.Message = fmt.Sprintf("Connected (uid = %d). %d product(s) loaded.", session.UserID, len(products))
	page.Products = views.Products(products)
	return c.Render(http.StatusOK, templates.PageIndex, page)
}
