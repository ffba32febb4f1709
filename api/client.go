package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"binobj/bwire"
	"binobj/record"
	"binobj/version"

	"github.com/pkg/errors"
)

// StatusError is returned by Client for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

type Client struct {
	baseURL string
	hc      *http.Client
	codecs  *Registry
	wire    *bwire.ConfiguredCodec
	schema  string
}

// NewClient returns a client for the server at baseURL, e.g.
// http://127.0.0.1:3000. wire must match the server's codec settings.
func NewClient(baseURL string, hc *http.Client, wire *bwire.ConfiguredCodec) (*Client, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	if wire == nil {
		def := bwire.DefaultCodec()
		wire = &def
	}
	codecs, err := NewRegistry(wire)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		hc:      hc,
		codecs:  codecs,
		wire:    wire,
		schema:  wire.Fingerprint(record.UserSchema()).String(),
	}, nil
}

// Echo posts user using the codec called name (buf, json or cbor) and
// decodes the JSON reply. It returns the number of bytes sent and received.
func (c *Client) Echo(ctx context.Context, name string, user *record.User) (*record.User, int, error) {
	codec := c.codecs.ForName(name)
	if codec == nil {
		return nil, 0, errors.Errorf("unknown codec %q", name)
	}
	body, err := codec.Marshal(user)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "error encoding user as %s", name)
	}
	res, err := c.do(ctx, http.MethodPost, "/api/"+name, codec.ContentType(), body)
	if err != nil {
		return nil, 0, err
	}
	echoed := new(record.User)
	if err := jsonAPI.Unmarshal(res, echoed); err != nil {
		return nil, 0, errors.Wrap(err, "error decoding echo response")
	}
	return echoed, len(body) + len(res), nil
}

func (c *Client) PutUser(ctx context.Context, user *record.User) error {
	body, err := c.wire.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "error encoding user")
	}
	_, err = c.do(ctx, http.MethodPut, userPath(user.ID), ContentTypeBinary, body)
	return err
}

func (c *Client) GetUser(ctx context.Context, id float64) (*record.User, error) {
	res, err := c.do(ctx, http.MethodGet, userPath(id), "", nil)
	if err != nil {
		return nil, err
	}
	return bwire.FromWith[record.User](c.wire, res)
}

// ListUsers fetches every stored user. The listing travels as CBOR.
func (c *Client) ListUsers(ctx context.Context) ([]*record.User, error) {
	codec := c.codecs.ForName("cbor")
	res, err := c.doWith(ctx, http.MethodGet, "/api/users", "", codec.ContentType(), nil)
	if err != nil {
		return nil, err
	}
	var users []*record.User
	if err := codec.Unmarshal(res, &users); err != nil {
		return nil, errors.Wrap(err, "error decoding user list")
	}
	return users, nil
}

func (c *Client) DeleteUser(ctx context.Context, id float64) error {
	_, err := c.do(ctx, http.MethodDelete, userPath(id), "", nil)
	return err
}

func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", "", nil)
	return err
}

func (c *Client) do(ctx context.Context, method string, path string, contentType string, body []byte) ([]byte, error) {
	return c.doWith(ctx, method, path, contentType, "", body)
}

func (c *Client) doWith(ctx context.Context, method string, path string, contentType string, accept string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, errors.Wrap(err, "error building request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", version.UserAgent)
	req.Header.Set(SchemaHeader, c.schema)
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "error calling %s %s", method, path)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response")
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := string(resBody)
		var errRes errorResponse
		if jsonAPI.Unmarshal(resBody, &errRes) == nil && errRes.Error != "" {
			msg = errRes.Error
		}
		return nil, &StatusError{Code: res.StatusCode, Message: msg}
	}
	return resBody, nil
}

func userPath(id float64) string {
	return "/api/users/" + strconv.FormatFloat(id, 'g', -1, 64)
}
