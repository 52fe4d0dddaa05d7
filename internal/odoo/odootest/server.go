// Package odootest provides an in-memory Odoo JSON-RPC server for tests.
package odootest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/tidwall/gjson"
)

// Call is one call_kw request received by the server.
type Call struct {
	Model  string
	Method string
	Args   string // raw JSON
	Kwargs string // raw JSON
	Cookie string
	Header string
}

// Failure overrides the response for a model/method pair.
type Failure struct {
	Status int
	Body   string
}

// Server is a scripted Odoo stand-in. Records are stored as raw field maps
// per model, the same shape search_read returns.
type Server struct {
	*httptest.Server

	DB       string
	Login    string
	Password string
	UID      int64
	Token    string

	// OmitSessionCookie makes authenticate succeed without setting session_id.
	OmitSessionCookie bool

	mu       sync.Mutex
	records  map[string][]map[string]any
	nextIDs  map[string]int64
	calls    []Call
	failures map[string]Failure
}

// NewServer starts a server accepting db/admin/admin and issuing uid 2 with
// token abc123.
func NewServer() *Server {
	s := &Server{
		DB:       "odoo_lab",
		Login:    "admin",
		Password: "admin",
		UID:      2,
		Token:    "abc123",
		records:  make(map[string][]map[string]any),
		nextIDs:  make(map[string]int64),
		failures: make(map[string]Failure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/web/session/authenticate", s.handleAuthenticate)
	mux.HandleFunc("/web/dataset/call_kw", s.handleCallKW)
	s.Server = httptest.NewServer(mux)
	return s
}

// AddRecord stores a record for model. The id field is assigned when absent.
func (s *Server) AddRecord(model string, fields map[string]any) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(model, fields)
}

// SetNextID makes the next record created for model receive id.
func (s *Server) SetNextID(model string, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextIDs[model] = id
}

// Fail makes every call to model.method return f instead of a result.
func (s *Server) Fail(model, method string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[model+"."+method] = f
}

// Calls returns the call_kw requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many times model.method was invoked.
func (s *Server) CallCount(model, method string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Model == model && c.Method == method {
			n++
		}
	}
	return n
}

func (s *Server) insert(model string, fields map[string]any) int64 {
	id, ok := toInt(fields["id"])
	if !ok {
		id = s.nextIDs[model]
		if id == 0 {
			id = int64(len(s.records[model]) + 1)
		}
		fields["id"] = id
	}
	if id >= s.nextIDs[model] {
		s.nextIDs[model] = id + 1
	}
	s.records[model] = append(s.records[model], fields)
	return id
}

func (s *Server) find(model string, id int64) map[string]any {
	for _, rec := range s.records[model] {
		if rid, ok := toInt(rec["id"]); ok && rid == id {
			return rec
		}
	}
	return nil
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	params := gjson.GetBytes(body, "params")

	if params.Get("db").String() != s.DB ||
		params.Get("login").String() != s.Login ||
		params.Get("password").String() != s.Password {
		writeError(w, http.StatusOK, "Access Denied")
		return
	}

	if !s.OmitSessionCookie {
		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: s.Token, Path: "/"})
	}
	writeResult(w, map[string]any{"uid": s.UID, "db": s.DB})
}

func (s *Server) handleCallKW(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	params := gjson.GetBytes(body, "params")
	model := params.Get("model").String()
	method := params.Get("method").String()

	call := Call{
		Model:  model,
		Method: method,
		Args:   params.Get("args").Raw,
		Kwargs: params.Get("kwargs").Raw,
		Header: r.Header.Get("X-Openerp-Session-Id"),
	}
	if ck, err := r.Cookie("session_id"); err == nil {
		call.Cookie = ck.Value
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)

	if f, ok := s.failures[model+"."+method]; ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.Status)
		io.WriteString(w, f.Body)
		return
	}

	if call.Cookie != s.Token {
		writeError(w, http.StatusOK, "Session expired")
		return
	}

	switch method {
	case "search_read":
		writeResult(w, s.searchRead(model, params))
	case "create":
		id, err := s.create(model, params.Get("args.0"))
		if err != nil {
			writeError(w, http.StatusOK, err.Error())
			return
		}
		writeResult(w, id)
	default:
		writeError(w, http.StatusOK, fmt.Sprintf("method %s not supported", method))
	}
}

func (s *Server) searchRead(model string, params gjson.Result) []map[string]any {
	domain := params.Get("args.0").Array()
	fields := params.Get("kwargs.fields").Array()
	limit := int(params.Get("kwargs.limit").Int())

	rows := []map[string]any{}
	for _, rec := range s.records[model] {
		if !matches(rec, domain) {
			continue
		}
		row := map[string]any{"id": rec["id"]}
		for _, f := range fields {
			v, ok := rec[f.String()]
			if !ok {
				v = false
			}
			row[f.String()] = v
		}
		rows = append(rows, row)
		if limit > 0 && len(rows) == limit {
			break
		}
	}
	return rows
}

func (s *Server) create(model string, values gjson.Result) (int64, error) {
	if !values.IsObject() {
		return 0, fmt.Errorf("create expects a values dict")
	}

	switch model {
	case "sale.order":
		partnerID := values.Get("partner_id").Int()
		partner := s.find("res.partner", partnerID)
		if partner == nil {
			return 0, fmt.Errorf("partner %d does not exist", partnerID)
		}
		id := s.insert(model, map[string]any{
			"partner_id":   []any{partnerID, partner["name"]},
			"state":        "draft",
			"date_order":   "2026-10-17 09:30:00",
			"amount_total": 0.0,
		})
		s.find(model, id)["name"] = fmt.Sprintf("S%05d", id)
		return id, nil

	case "sale.order.line":
		orderID := values.Get("order_id").Int()
		productID := values.Get("product_id").Int()
		qty := values.Get("product_uom_qty").Float()
		order := s.find("sale.order", orderID)
		if order == nil {
			return 0, fmt.Errorf("order %d does not exist", orderID)
		}
		product := s.find("product.template", productID)
		if product == nil {
			return 0, fmt.Errorf("product %d does not exist", productID)
		}
		price, _ := product["list_price"].(float64)
		subtotal := price * qty
		total, _ := order["amount_total"].(float64)
		order["amount_total"] = total + subtotal
		return s.insert(model, map[string]any{
			"order_id":        []any{orderID, order["name"]},
			"product_id":      []any{productID, product["name"]},
			"product_uom_qty": qty,
			"price_unit":      price,
			"price_subtotal":  subtotal,
		}), nil

	default:
		fields := map[string]any{}
		values.ForEach(func(k, v gjson.Result) bool {
			fields[k.String()] = v.Value()
			return true
		})
		return s.insert(model, fields), nil
	}
}

// matches supports the [field, "=", value] terms the client sends. A
// relation stored as [id, label] matches on its id.
func matches(rec map[string]any, domain []gjson.Result) bool {
	for _, term := range domain {
		parts := term.Array()
		if len(parts) != 3 || parts[1].String() != "=" {
			return false
		}
		want := parts[2]
		got := rec[parts[0].String()]
		if rel, ok := got.([]any); ok && len(rel) == 2 {
			got = rel[0]
		}
		switch want.Type {
		case gjson.Number:
			n, ok := toInt(got)
			if !ok || n != want.Int() {
				return false
			}
		default:
			if fmt.Sprint(got) != want.String() {
				return false
			}
		}
	}
	return true
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), n == float64(int64(n))
	default:
		return 0, false
	}
}

func writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      nil,
		"result":  result,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      nil,
		"error": map[string]any{
			"code":    200,
			"message": "Odoo Server Error",
			"data":    map[string]any{"message": message},
		},
	})
}
