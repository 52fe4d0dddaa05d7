package odoo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var testSession = &Session{UserID: 2, Token: "abc123"}

func TestCall_EnvelopeAndSessionChannels(t *testing.T) {
	var body gjson.Result
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/web/dataset/call_kw", r.URL.Path)
		ck, err := r.Cookie("session_id")
		if assert.NoError(t, err) {
			assert.Equal(t, "abc123", ck.Value)
		}
		assert.Equal(t, "abc123", r.Header.Get("X-Openerp-Session-Id"))

		raw, _ := io.ReadAll(r.Body)
		body = gjson.ParseBytes(raw)
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[{"id":1}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	result, err := c.Call(context.Background(), testSession, "res.partner", "search_read",
		[]any{Eq("name", "Administrator")}, map[string]any{"fields": []string{"id"}, "limit": 1})
	require.NoError(t, err)
	assert.True(t, result.IsArray())

	assert.Equal(t, "2.0", body.Get("jsonrpc").String())
	assert.Equal(t, "call", body.Get("method").String())
	assert.Equal(t, "res.partner", body.Get("params.model").String())
	assert.Equal(t, "search_read", body.Get("params.method").String())
	assert.JSONEq(t, `[[["name","=","Administrator"]]]`, body.Get("params.args").Raw)
	assert.JSONEq(t, `{"fields":["id"],"limit":1}`, body.Get("params.kwargs").Raw)
}

func TestCall_NilArgsEncodeAsEmpty(t *testing.T) {
	var body gjson.Result
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = gjson.ParseBytes(raw)
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Call(context.Background(), testSession, "res.users", "check_access", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", body.Get("params.args").Raw)
	assert.Equal(t, "{}", body.Get("params.kwargs").Raw)
}

func TestCall_RequestIDsIncrease(t *testing.T) {
	var ids []int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		ids = append(ids, gjson.GetBytes(raw, "id").Int())
		w.Write([]byte(`{"result":1}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	for i := 0; i < 3; i++ {
		_, err := c.Call(context.Background(), testSession, "m", "f", nil, nil)
		require.NoError(t, err)
	}
	require.Len(t, ids, 3)
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[1], ids[2])
}

func TestCall_ErrorKeyWinsOverStatus(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":200,"message":"Odoo Server Error","data":{"message":"Record does not exist"}}}`))
		}))

		c := newTestClient(t, srv.URL)
		_, err := c.Call(context.Background(), testSession, "sale.order", "read", nil, nil)
		var re *RemoteError
		if assert.ErrorAs(t, err, &re, "status %d", status) {
			assert.Equal(t, "Record does not exist", re.Message)
		}
		srv.Close()
	}
}

func TestCall_RemoteMessageFallbacks(t *testing.T) {
	bodies := map[string]string{
		`{"error":{"message":"Top level"}}`: "Top level",
		`{"error":{}}`:                      "remote server reported an error",
		`{"error":false}`:                   "remote server reported an error",
	}
	for body, want := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		c := newTestClient(t, srv.URL)
		_, err := c.Call(context.Background(), testSession, "m", "f", nil, nil)
		var re *RemoteError
		if assert.ErrorAs(t, err, &re) {
			assert.Equal(t, want, re.Message)
		}
		srv.Close()
	}
}

func TestCall_HTTPErrorCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream went away"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Call(context.Background(), testSession, "m", "f", nil, nil)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadGateway, te.StatusCode)
	assert.Equal(t, "Bad Gateway", te.Reason)
	assert.Equal(t, "upstream went away", te.Body)
	assert.Contains(t, te.Error(), "upstream went away")
}

func TestCall_ProtocolErrors(t *testing.T) {
	for _, body := range []string{`<html>oops</html>`, `{"jsonrpc":"2.0","id":1}`, `[1,2]`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		c := newTestClient(t, srv.URL)
		_, err := c.Call(context.Background(), testSession, "m", "f", nil, nil)
		var pe *ProtocolError
		assert.ErrorAs(t, err, &pe, body)
		srv.Close()
	}
}

func TestCall_RequiresSession(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	for _, s := range []*Session{nil, {UserID: 2}} {
		_, err := c.Call(context.Background(), s, "m", "f", nil, nil)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	}
}

func TestCall_TimeoutIsTransportError(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	defer close(done)

	c, err := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Call(context.Background(), testSession, "m", "f", nil, nil)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.StatusCode)
}

func TestCall_ResultOutlivesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"name":"kept"}}`))
	}))
	c := newTestClient(t, srv.URL)
	result, err := c.Call(context.Background(), testSession, "m", "f", nil, nil)
	require.NoError(t, err)
	srv.Close()
	c.Close()

	assert.Equal(t, "kept", StringOf(result.Get("name")))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "validation", Outcome(&ValidationError{}))
	assert.Equal(t, "transport", Outcome(&TransportError{}))
	assert.Equal(t, "remote", Outcome(&RemoteError{}))
	assert.Equal(t, "not_found", Outcome(&NotFoundError{}))
	assert.Equal(t, "protocol", Outcome(&ProtocolError{}))
}
