package odoo

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Session is an authenticated handle on the server. It is held in memory for
// the duration of one user action and passed explicitly to every call.
type Session struct {
	UserID int64
	Token  string
}

type authParams struct {
	DB       string `json:"db"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Authenticate logs in through /web/session/authenticate. The session token is
// taken from the session_id cookie set during the exchange; the server does
// not echo it in the body.
func (c *Client) Authenticate(ctx context.Context, db, login, password string) (*Session, error) {
	switch {
	case strings.TrimSpace(db) == "":
		return nil, &ValidationError{Field: "db", Message: "database is required"}
	case strings.TrimSpace(login) == "":
		return nil, &ValidationError{Field: "login", Message: "login is required"}
	case strings.TrimSpace(password) == "":
		return nil, &ValidationError{Field: "password", Message: "password is required"}
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, &TransportError{Endpoint: "authenticate", Reason: err.Error(), Err: err}
	}
	hc := &http.Client{Transport: c.transport, Jar: jar, Timeout: c.timeout}

	labels := rpcLabels{endpoint: "authenticate", method: "authenticate"}
	result, err := c.post(ctx, hc, authenticatePath, authParams{DB: db, Login: login, Password: password}, labels, nil)
	if err != nil {
		return nil, err
	}

	uid, ok := IntegerOf(result.Get("uid"))
	if !ok {
		return nil, &RemoteError{Message: "authentication rejected: no user id returned"}
	}

	var token string
	for _, ck := range jar.Cookies(c.baseURL) {
		if ck.Name == sessionCookieName && ck.Value != "" {
			token = ck.Value
			break
		}
	}
	if token == "" {
		return nil, &RemoteError{Message: ErrNoSessionToken.Error(), Err: ErrNoSessionToken}
	}

	c.log.WithField("uid", uid).Debug("odoo session established")
	return &Session{UserID: uid, Token: token}, nil
}
