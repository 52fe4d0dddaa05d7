package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"odoodesk/internal/metrics"
)

const (
	authenticatePath = "/web/session/authenticate"
	callKWPath       = "/web/dataset/call_kw"

	sessionCookieName = "session_id"
	sessionHeaderName = "X-Openerp-Session-Id"

	defaultTimeout = 30 * time.Second
)

// Client talks JSON-RPC to one Odoo server. A Client owns its transport and
// is meant to live for a single authenticate-then-operate sequence; call
// Close when the sequence is done.
type Client struct {
	baseURL   *url.URL
	base      string
	transport *http.Transport
	timeout   time.Duration
	log       logrus.FieldLogger
	nextID    atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout applied to every round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, &ValidationError{Field: "url", Message: "server URL is required"}
	}
	u, err := url.Parse(trimmed)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &ValidationError{Field: "url", Message: "server URL must be an absolute http(s) URL"}
	}

	c := &Client{
		baseURL:   u,
		base:      trimmed,
		transport: http.DefaultTransport.(*http.Transport).Clone(),
		timeout:   defaultTimeout,
		log:       logrus.StandardLogger(),
	}
	c.nextID.Store(time.Now().UnixMilli())
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	return c.base
}

// Close releases idle connections held by the client's transport.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int64  `json:"id"`
}

type callParams struct {
	Model  string         `json:"model"`
	Method string         `json:"method"`
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

// rpcLabels identify a call in logs and metrics.
type rpcLabels struct {
	endpoint string
	model    string
	method   string
}

// Call invokes method on model through /web/dataset/call_kw and returns the
// envelope's result. Every remote failure is reported as a *TransportError or
// a *RemoteError; a body that is not a JSON-RPC response is a *ProtocolError.
func (c *Client) Call(ctx context.Context, s *Session, model, method string, args []any, kwargs map[string]any) (gjson.Result, error) {
	if s == nil || s.Token == "" {
		return gjson.Result{}, &ValidationError{Field: "session", Message: "an authenticated session is required"}
	}
	if model == "" || method == "" {
		return gjson.Result{}, &ValidationError{Field: "call", Message: "model and method are required"}
	}
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	hc := &http.Client{Transport: c.transport, Timeout: c.timeout}
	params := callParams{Model: model, Method: method, Args: args, Kwargs: kwargs}
	labels := rpcLabels{endpoint: "call_kw", model: model, method: method}

	return c.post(ctx, hc, callKWPath, params, labels, func(req *http.Request) {
		req.Header.Set("Cookie", sessionCookieName+"="+s.Token)
		req.Header.Set(sessionHeaderName, s.Token)
	})
}

// post sends one envelope and unwraps it. It is the only place where HTTP
// and JSON-RPC failures are translated into errors.
func (c *Client) post(ctx context.Context, hc *http.Client, path string, params any, labels rpcLabels, decorate func(*http.Request)) (result gjson.Result, err error) {
	start := time.Now()
	defer func() {
		d := time.Since(start)
		outcome := Outcome(err)
		metrics.RecordRPC(labels.endpoint, labels.model, labels.method, outcome, d)
		c.log.WithFields(logrus.Fields{
			"endpoint": labels.endpoint,
			"model":    labels.model,
			"method":   labels.method,
			"outcome":  outcome,
			"duration": d,
		}).Debug("odoo rpc call")
	}()

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return gjson.Result{}, &ProtocolError{Op: labels.endpoint, Detail: "encode request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return gjson.Result{}, &TransportError{Endpoint: labels.endpoint, Reason: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if decorate != nil {
		decorate(req)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return gjson.Result{}, &TransportError{Endpoint: labels.endpoint, Reason: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, &TransportError{
			Endpoint:   labels.endpoint,
			StatusCode: resp.StatusCode,
			Reason:     "read response: " + err.Error(),
			Err:        err,
		}
	}

	// The string conversion copies the body, so the returned result does not
	// alias the read buffer.
	body := string(raw)
	valid := gjson.Valid(body)
	var root gjson.Result
	if valid {
		root = gjson.Parse(body)
		if e := root.Get("error"); e.Exists() {
			return gjson.Result{}, &RemoteError{Message: remoteMessage(e)}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		te := &TransportError{
			Endpoint:   labels.endpoint,
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
		}
		if labels.endpoint == "call_kw" {
			te.Body = body
		}
		return gjson.Result{}, te
	}

	if !valid || !root.IsObject() {
		return gjson.Result{}, &ProtocolError{Op: labels.endpoint, Detail: "response is not a JSON-RPC envelope"}
	}
	result = root.Get("result")
	if !result.Exists() {
		return gjson.Result{}, &ProtocolError{Op: labels.endpoint, Detail: "response has no result"}
	}
	return result, nil
}

func remoteMessage(e gjson.Result) string {
	if msg := StringOf(e.Get("data.message")); msg != "" {
		return msg
	}
	if msg := StringOf(e.Get("message")); msg != "" {
		return msg
	}
	return "remote server reported an error"
}

func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
