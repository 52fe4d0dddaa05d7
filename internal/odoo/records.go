package odoo

import (
	"context"

	"github.com/tidwall/gjson"
)

// Domain is an Odoo search domain: a list of [field, operator, value] terms.
type Domain [][]any

// Eq builds a single-term domain matching field == value.
func Eq(field string, value any) Domain {
	return Domain{{field, "=", value}}
}

// SearchRead runs search_read on model and returns the rows in server order.
// A nil domain matches every record.
func (c *Client) SearchRead(ctx context.Context, s *Session, model string, domain Domain, fields []string, limit int) ([]gjson.Result, error) {
	if domain == nil {
		domain = Domain{}
	}
	kwargs := map[string]any{"fields": fields}
	if limit > 0 {
		kwargs["limit"] = limit
	}

	result, err := c.Call(ctx, s, model, "search_read", []any{domain}, kwargs)
	if err != nil {
		return nil, err
	}
	if !result.IsArray() {
		return nil, &ProtocolError{Op: model + ".search_read", Detail: "expected a list of records"}
	}
	return result.Array(), nil
}

// Create runs create on model with values and returns the new record id.
func (c *Client) Create(ctx context.Context, s *Session, model string, values map[string]any) (int64, error) {
	result, err := c.Call(ctx, s, model, "create", []any{values}, nil)
	if err != nil {
		return 0, err
	}
	id, ok := IntegerOf(result)
	if !ok {
		return 0, &ProtocolError{Op: model + ".create", Detail: "unexpected create response shape"}
	}
	return id, nil
}
