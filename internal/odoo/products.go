package odoo

import (
	"context"

	"github.com/tidwall/gjson"

	"odoodesk/internal/models"
)

const (
	productModel = "product.template"
	productLimit = 50
)

var productFields = []string{
	"id",
	"name",
	"list_price",
	"type",
	"default_code",
	"categ_id",
	"qty_available",
	"max_guests",
	"beds",
	"bedrooms",
	"bathrooms",
	"pool_available",
	"air_conditioning_available",
}

// ListProducts returns up to 50 products in server order.
func (c *Client) ListProducts(ctx context.Context, s *Session) ([]models.Product, error) {
	rows, err := c.SearchRead(ctx, s, productModel, nil, productFields, productLimit)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, productFromRow(row))
	}
	return products, nil
}

func productFromRow(row gjson.Result) models.Product {
	id, _ := IntegerOf(row.Get("id"))
	return models.Product{
		ID:                       id,
		Name:                     StringOf(row.Get("name")),
		Kind:                     StringOf(row.Get("type")),
		Code:                     StringOf(row.Get("default_code")),
		CategoryLabel:            LabelOf(row.Get("categ_id")),
		ListPrice:                decimalOrZero(row.Get("list_price")),
		QuantityAvailable:        decimalOrZero(row.Get("qty_available")),
		MaxGuests:                intOrZero(row.Get("max_guests")),
		Beds:                     intOrZero(row.Get("beds")),
		Bedrooms:                 intOrZero(row.Get("bedrooms")),
		Bathrooms:                intOrZero(row.Get("bathrooms")),
		PoolAvailable:            BoolOf(row.Get("pool_available")),
		AirConditioningAvailable: BoolOf(row.Get("air_conditioning_available")),
	}
}
