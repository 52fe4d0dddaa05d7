package models

import "github.com/shopspring/decimal"

// Product is a catalog entry as read from product.template, including the
// rental-property extension fields.
type Product struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Kind              string          `json:"kind"`
	Code              string          `json:"code"`
	CategoryLabel     string          `json:"category_label"`
	ListPrice         decimal.Decimal `json:"list_price"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`

	// Rental extension
	MaxGuests                int  `json:"max_guests"`
	Beds                     int  `json:"beds"`
	Bedrooms                 int  `json:"bedrooms"`
	Bathrooms                int  `json:"bathrooms"`
	PoolAvailable            bool `json:"pool_available"`
	AirConditioningAvailable bool `json:"air_conditioning_available"`
}
