package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"odoodesk/internal/auth"
	"odoodesk/internal/logging"
	"odoodesk/internal/odoo"
	"odoodesk/internal/templates"
	"odoodesk/internal/views"
)

// Handlers serves the HTML pages. It holds configuration only; nothing is
// shared between requests.
type Handlers struct {
	auth        *auth.Service
	log         logrus.FieldLogger
	defaults    auth.Credentials
	partnerName string
}

// pageData is the model handed to every template.
type pageData struct {
	Form           auth.Credentials
	CSRF           string
	Success        bool
	Message        string
	Products       []views.ProductRow
	CreatedOrderID int64
	Order          *views.OrderPage
}

// Health check
func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// indexHandler handles GET /
func (h *Handlers) indexHandler(c echo.Context) error {
	return c.Render(http.StatusOK, templates.PageIndex, h.newPage(c, h.defaults))
}

// newPage starts a page that echoes form back to the user.
func (h *Handlers) newPage(c echo.Context, form auth.Credentials) pageData {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return pageData{Form: form, CSRF: token}
}

// renderFailure logs err and renders the index page with a generic message
// followed by the error text.
func (h *Handlers) renderFailure(c echo.Context, page pageData, action string, err error) error {
	logging.FromContext(h.log, c).
		WithError(err).
		WithField("outcome", odoo.Outcome(err)).
		Error(action + " failed")

	page.Success = false
	page.Message = "Error: " + err.Error()
	page.Products = nil
	page.CreatedOrderID = 0
	page.Order = nil
	return c.Render(statusFor(err), templates.PageIndex, page)
}

// statusFor maps an error kind to the status of the rendered page.
func statusFor(err error) int {
	switch odoo.Outcome(err) {
	case "validation":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
