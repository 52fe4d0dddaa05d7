package auth

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"odoodesk/internal/odoo"
)

// Credentials are the connection fields submitted with every form. They
// travel as form values on POST and as query parameters on GET.
type Credentials struct {
	URL      string `form:"odooUrl" query:"odooUrl"`
	DB       string `form:"odooDb" query:"odooDb"`
	Login    string `form:"odooLogin" query:"odooLogin"`
	Password string `form:"odooPassword" query:"odooPassword"`
}

// Validate reports a ValidationError when any field is blank.
func (c Credentials) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"odooUrl", c.URL},
		{"odooDb", c.DB},
		{"odooLogin", c.Login},
		{"odooPassword", c.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &odoo.ValidationError{Field: f.name, Message: "please fill in all connection fields"}
		}
	}
	return nil
}

// Service opens authenticated Odoo sessions. It holds no session state:
// every call authenticates from the credentials it is given.
type Service struct {
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewService creates a new auth service
func NewService(timeout time.Duration, log logrus.FieldLogger) *Service {
	return &Service{timeout: timeout, log: log}
}

// Login validates creds, creates a client for the server and authenticates.
// On success the caller owns the client and must Close it.
func (s *Service) Login(ctx context.Context, creds Credentials) (*odoo.Client, *odoo.Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, nil, err
	}

	client, err := odoo.NewClient(creds.URL, odoo.WithTimeout(s.timeout), odoo.WithLogger(s.log))
	if err != nil {
		return nil, nil, err
	}

	session, err := client.Authenticate(ctx, creds.DB, creds.Login, creds.Password)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return client, session, nil
}
