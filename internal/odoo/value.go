package odoo

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// The server encodes "no value" as false, null, or by leaving the key out.
// Every accessor below is total: unexpected shapes resolve to the zero value
// or to ok == false, never to an error.

// Relation is a reference to another remote record, decoded from the
// [id, label] pair used on the wire.
type Relation struct {
	ID    int64
	Label string
}

// StringOf returns v as a string. false, null and absent values yield "".
func StringOf(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.False, gjson.Null:
		return ""
	case gjson.True:
		return "true"
	default:
		return v.Raw
	}
}

// DecimalOf returns v as a decimal when it is a JSON number.
func DecimalOf(v gjson.Result) (decimal.Decimal, bool) {
	if v.Type != gjson.Number {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v.Raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IntegerOf returns v as an int64 when it is an integral JSON number that
// fits in 64 bits. 3.0 is accepted, 3.5 is not.
func IntegerOf(v gjson.Result) (int64, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	if n, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
		return n, true
	}
	d, err := decimal.NewFromString(v.Raw)
	if err != nil || !d.IsInteger() {
		return 0, false
	}
	bi := d.BigInt()
	if !bi.IsInt64() {
		return 0, false
	}
	return bi.Int64(), true
}

// BoolOf reports whether v is the JSON literal true.
func BoolOf(v gjson.Result) bool {
	return v.Type == gjson.True
}

// RelationOf decodes a relational field. Only arrays of at least two
// elements with an integer id are relations; false, [5] and anything else
// report ok == false.
func RelationOf(v gjson.Result) (Relation, bool) {
	if !v.IsArray() {
		return Relation{}, false
	}
	elems := v.Array()
	if len(elems) < 2 {
		return Relation{}, false
	}
	id, ok := IntegerOf(elems[0])
	if !ok {
		return Relation{}, false
	}
	return Relation{ID: id, Label: StringOf(elems[1])}, true
}

// LabelOf returns the label of a relational field, or "" when unset.
func LabelOf(v gjson.Result) string {
	rel, ok := RelationOf(v)
	if !ok {
		return ""
	}
	return rel.Label
}

func decimalOrZero(v gjson.Result) decimal.Decimal {
	d, _ := DecimalOf(v)
	return d
}

func intOrZero(v gjson.Result) int {
	n, _ := IntegerOf(v)
	return int(n)
}
