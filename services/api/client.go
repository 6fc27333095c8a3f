// Package api is the client of the SCM REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

const maxBodySize = 10 << 20

// TokenSource supplies the current session and is told when the server rejects it.
type TokenSource interface {
	Current() *session.Session
	Expire(ctx context.Context) error
}

var _ TokenSource = (*session.Manager)(nil)

type Client struct {
	baseURL    string
	http       *http.Client
	tokens     TokenSource
	logger     core.Logger
	validate   *validator.Validate
	translator ut.Translator
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l core.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(conf *core.Config, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(conf.API.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.API.Timeout},
		tokens:  tokens,
		logger:  core.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.validate, c.translator = core.NewValidator()
	return c
}

// Session returns the session requests are authorized with, if any.
func (c *Client) Session() *session.Session {
	if c.tokens == nil {
		return nil
	}
	return c.tokens.Current()
}

type request struct {
	method string
	path   string
	query  url.Values
	body   interface{}
	// extra fields merged into an object body
	extra map[string]interface{}
	// stamp adds the createdBy/updatedBy audit fields
	stamp bool
	// anonymous requests carry no token; a 401 is then not a session expiry
	anonymous bool
	// raw is sent as is instead of the JSON body
	raw         []byte
	contentType string
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	sess := c.Session()

	var body io.Reader
	contentType := "application/json"
	if r.raw != nil {
		body = bytes.NewReader(r.raw)
		contentType = r.contentType
	} else if r.body != nil {
		b, err := encodeBody(r, sess)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	reqID := uuid.New().String()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if !r.anonymous && sess.IsAuthenticated() {
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, "Network Error")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(err, "reading response")
	}
	c.logger.Debug(fmt.Sprintf("%s %s -> %d", r.method, r.path, resp.StatusCode), map[string]interface{}{"requestId": reqID})

	if resp.StatusCode == http.StatusUnauthorized && !r.anonymous {
		if c.tokens != nil {
			if err := c.tokens.Expire(ctx); err != nil {
				c.logger.Error("expiring session", err)
			}
		}
		return ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(data, out), "decoding %s response", r.path)
}

func encodeBody(r request, sess *session.Session) ([]byte, error) {
	b, err := json.Marshal(r.body)
	if err != nil {
		return nil, errors.Wrap(err, "encoding request body")
	}
	stamp := r.stamp && sess.IsAuthenticated()
	if len(r.extra) == 0 && !stamp {
		return b, nil
	}

	var obj map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return b, nil // not an object
	}
	for k, v := range r.extra {
		obj[k] = v
	}
	if stamp {
		switch r.method {
		case http.MethodPost:
			obj["createdBy"] = sess.UserID()
			obj["updatedBy"] = sess.UserID()
		case http.MethodPut:
			obj["updatedBy"] = sess.Profile.UserName
		}
	}
	b, err = json.Marshal(obj)
	return b, errors.Wrap(err, "encoding request body")
}

// validationError converts validator errors to a *core.ValidationError keyed by JSON names.
func (c *Client) validationError(err error) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]core.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		flds = append(flds, core.FieldError{Field: fe.Field(), Error: fe.Translate(c.translator)})
	}
	return core.NewValidationError(errors.New("invalid input"), flds...)
}
