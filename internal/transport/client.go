package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lshigami/acebrainiac/config"
	"github.com/lshigami/acebrainiac/internal/session"
)

// APIPrefix is prepended to every request path.
const APIPrefix = "/v1"

// Client is the authenticated transport shared by every controller and service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	session    *session.Session
}

func NewClient(cfg *config.Config, sess *session.Session) *Client {
	return &Client{
		BaseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: cfg.API.Timeout,
		},
		session: sess,
	}
}

func (c *Client) Session() *session.Session { return c.session }

func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, "")
}

func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "")
}

// PostJSON sends payload as JSON; a nil payload sends no body.
func (c *Client) PostJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return c.sendJSON(ctx, http.MethodPost, path, payload)
}

func (c *Client) PutJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return c.sendJSON(ctx, http.MethodPut, path, payload)
}

func (c *Client) PostForm(ctx context.Context, path string, form *Form) ([]byte, error) {
	return c.sendForm(ctx, http.MethodPost, path, form)
}

func (c *Client) PutForm(ctx context.Context, path string, form *Form) ([]byte, error) {
	return c.sendForm(ctx, http.MethodPut, path, form)
}

func (c *Client) sendForm(ctx context.Context, method, path string, form *Form) ([]byte, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, method, path, nil, body, contentType)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return c.do(ctx, method, path, nil, nil, "")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s %s", method, path)
	}
	return c.do(ctx, method, path, nil, bytes.NewReader(data), "application/json")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	target := c.BaseURL + APIPrefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.session != nil {
		if tok := c.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s %s", method, path)
	}
	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status_code", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api_request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseAPIError(resp.StatusCode, data)
		if apiErr.Unauthorized() && c.session != nil {
			c.session.Expire()
		}
		return nil, apiErr
	}
	return data, nil
}

// DecodeData unmarshals the "data" member of a success envelope into v. A
// body without an envelope is decoded as-is.
func DecodeData(body []byte, v interface{}) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return errors.Wrap(json.Unmarshal(env.Data, v), "decode data envelope")
	}
	return errors.Wrap(json.Unmarshal(body, v), "decode response body")
}
