package odoo

import (
	"context"
	"fmt"
)

const partnerModel = "res.partner"

// ResolvePartnerByName returns the id of the partner whose name is exactly name.
func (c *Client) ResolvePartnerByName(ctx context.Context, s *Session, name string) (int64, error) {
	if name == "" {
		return 0, &ValidationError{Field: "partner", Message: "partner name is required"}
	}

	rows, err := c.SearchRead(ctx, s, partnerModel, Eq("name", name), []string{"id", "name"}, 1)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, &NotFoundError{Model: partnerModel, Criteria: fmt.Sprintf("name = %q", name)}
	}

	id, ok := IntegerOf(rows[0].Get("id"))
	if !ok {
		return 0, &NotFoundError{Model: partnerModel, Criteria: fmt.Sprintf("name = %q", name)}
	}
	return id, nil
}
