package templates

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct{ URL, DB, Login, Password string }

type row struct {
	ID                int64
	Name              string
	Kind              string
	Code              string
	Category          string
	ListPrice         string
	QuantityAvailable string
	MaxGuests         int
	Beds              int
	Bedrooms          int
	Bathrooms         int
	Pool              string
	AirConditioning   string
	IsRental          bool
}

type line struct{ ProductName, Quantity, UnitPrice, Subtotal string }

type order struct {
	Name     string
	Customer string
	Status   string
	Date     string
	Total    string
	Lines    []line
}

type data struct {
	Form           form
	CSRF           string
	Success        bool
	Message        string
	Products       []row
	CreatedOrderID int64
	Order          *order
}

func TestRender_Index(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, PageIndex, data{
		Form:           form{URL: "http://localhost:8069", DB: "odoo_lab", Login: "admin", Password: "admin"},
		CSRF:           "tok<en>",
		Success:        true,
		Message:        "Connected (uid = 2). 1 product(s) loaded.",
		CreatedOrderID: 42,
		Products: []row{
			{ID: 7, Name: "Villa <Azur>", Category: "", ListPrice: "250.00", IsRental: true, MaxGuests: 8, Pool: "Yes", AirConditioning: "No"},
		},
	}, nil)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `value="http://localhost:8069"`)
	assert.Contains(t, html, "Connected (uid = 2)")
	assert.Contains(t, html, `class="alert ok"`)
	assert.Contains(t, html, "Villa &lt;Azur&gt;")
	assert.Contains(t, html, "Follow order #42")
	assert.Contains(t, html, `name="productId" value="7"`)
	assert.Contains(t, html, "tok&lt;en&gt;")
	assert.Contains(t, html, "—")
}

func TestRender_Order(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, PageOrder, data{
		Order: &order{
			Name:     "S00042",
			Customer: "Administrator",
			Status:   "Quotation",
			Total:    "500.00",
			Lines:    []line{{ProductName: "Villa Azur", Quantity: "2", UnitPrice: "250.00", Subtotal: "500.00"}},
		},
	}, nil)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<title>Order S00042</title>")
	assert.Contains(t, html, "Villa Azur")
	assert.Contains(t, html, "500.00")
	assert.NotContains(t, html, "This order has no lines.")
}

func TestRender_UnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, "missing", nil, nil))
}
