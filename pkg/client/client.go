// Package client talks to the JARVICE REST API. Every endpoint lives under
// <server>/jarvice/ and takes its arguments as query values; credentials are
// attached by a request editor so that operations only carry their own
// parameters.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// HttpRequestDoer performs HTTP requests. *http.Client satisfies it.
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn is the function signature for the RequestEditor callback function
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// Client issues requests against a JARVICE API server.
type Client struct {
	// Base URL of the API with scheme, https://platform.jarvice.com for
	// example. It may carry a path prefix; operation paths are appended to it.
	Server string

	// Doer for performing requests, typically a *http.Client with any
	// customized settings, such as certificate chains.
	Client HttpRequestDoer

	// A list of callbacks for modifying requests which are generated before
	// sending over the network.
	RequestEditors []RequestEditorFn
}

// ClientOption allows setting custom parameters during construction
type ClientOption func(*Client) error

// NewClient creates a new Client, with reasonable defaults
func NewClient(server string, opts ...ClientOption) (*Client, error) {
	if server == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	client := Client{Server: server}
	for _, o := range opts {
		if err := o(&client); err != nil {
			return nil, err
		}
	}
	// ensure the server URL always has a trailing slash
	if !strings.HasSuffix(client.Server, "/") {
		client.Server += "/"
	}
	if client.Client == nil {
		client.Client = &http.Client{}
	}
	return &client, nil
}

// WithHTTPClient allows overriding the default Doer, which is
// automatically created using http.Client. This is useful for tests.
func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *Client) error {
		c.Client = doer
		return nil
	}
}

// WithRequestEditorFn allows setting up a callback function, which will be
// called right before sending the request. This can be used to mutate the request.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *Client) error {
		c.RequestEditors = append(c.RequestEditors, fn)
		return nil
	}
}

// JobSelector picks a job by number or by name. Exactly one should be set.
type JobSelector struct {
	Number *int64
	Name   *string
}

// TailParams defines parameters for Tail and Output.
type TailParams struct {
	JobSelector
	// Lines limits the output to the last N lines. Nil leaves the choice to the server.
	Lines *int
}

// ActionParams defines parameters for Action.
type ActionParams struct {
	JobSelector
	Action string
}

// JobsParams defines parameters for Jobs.
type JobsParams struct {
	Completed *bool
}

// Jobs lists the caller's jobs keyed by job number.
func (c *Client) Jobs(ctx context.Context, params *JobsParams) (*OrderedMap[JobEntry], error) {
	var query []queryParam
	if params != nil && params.Completed != nil {
		query = append(query, queryParam{"completed", *params.Completed})
	}
	var out OrderedMap[JobEntry]
	if err := c.getJSON(ctx, "jobs", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status returns detailed status keyed by job number.
func (c *Client) Status(ctx context.Context, sel JobSelector) (*OrderedMap[JobStatusEntry], error) {
	var out OrderedMap[JobStatusEntry]
	if err := c.getJSON(ctx, "status", sel.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Info(ctx context.Context, sel JobSelector) (*RuntimeInfo, error) {
	var out RuntimeInfo
	if err := c.getJSON(ctx, "info", sel.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Connect(ctx context.Context, sel JobSelector) (*ConnectInfo, error) {
	var out ConnectInfo
	if err := c.getJSON(ctx, "connect", sel.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tail returns recent output of a running job.
func (c *Client) Tail(ctx context.Context, params TailParams) (string, error) {
	return c.getText(ctx, "tail", params.query())
}

// Output returns the output of a job that has ended.
func (c *Client) Output(ctx context.Context, params TailParams) (string, error) {
	return c.getText(ctx, "output", params.query())
}

func (c *Client) Shutdown(ctx context.Context, sel JobSelector) error {
	return c.getJSON(ctx, "shutdown", sel.query(), nil)
}

func (c *Client) Terminate(ctx context.Context, sel JobSelector) error {
	return c.getJSON(ctx, "terminate", sel.query(), nil)
}

func (c *Client) Action(ctx context.Context, params ActionParams) error {
	query := append(params.JobSelector.query(), queryParam{"action", params.Action})
	return c.getJSON(ctx, "action", query, nil)
}

// Apps lists applications keyed by application ID. A non-nil name narrows
// the listing to that application.
func (c *Client) Apps(ctx context.Context, name *string) (*OrderedMap[AppDescriptor], error) {
	var query []queryParam
	if name != nil {
		query = append(query, queryParam{"name", *name})
	}
	var out OrderedMap[AppDescriptor]
	if err := c.getJSON(ctx, "apps", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Machines lists machine types keyed by machine name. Some API versions
// return an array of objects carrying a "name" field instead; both shapes
// decode to the same map.
func (c *Client) Machines(ctx context.Context, name *string) (*OrderedMap[MachineDef], error) {
	var query []queryParam
	if name != nil {
		query = append(query, queryParam{"name", *name})
	}
	var raw json.RawMessage
	if err := c.getJSON(ctx, "machines", query, &raw); err != nil {
		return nil, err
	}
	return decodeMachines(raw)
}

// Submit posts a job descriptor. body must already be the JSON document.
func (c *Client) Submit(ctx context.Context, body []byte) (*SubmitResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "submit", nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	var out SubmitResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decoding submit response: %v", err)}
	}
	return &out, nil
}

type queryParam struct {
	name  string
	value any
}

func (s JobSelector) query() []queryParam {
	var q []queryParam
	if s.Number != nil {
		q = append(q, queryParam{"number", *s.Number})
	}
	if s.Name != nil {
		q = append(q, queryParam{"name", *s.Name})
	}
	return q
}

func (p TailParams) query() []queryParam {
	q := p.JobSelector.query()
	if p.Lines != nil {
		q = append(q, queryParam{"lines", *p.Lines})
	}
	return q
}

func (c *Client) newRequest(ctx context.Context, method, op string, params []queryParam, body io.Reader) (*http.Request, error) {
	serverURL, err := url.Parse(c.Server)
	if err != nil {
		return nil, err
	}

	queryURL, err := serverURL.Parse("./jarvice/" + op)
	if err != nil {
		return nil, err
	}

	if len(params) > 0 {
		queryValues := queryURL.Query()
		for _, p := range params {
			queryFrag, err := runtime.StyleParamWithLocation("form", true, p.name, runtime.ParamLocationQuery, p.value)
			if err != nil {
				return nil, err
			}
			parsed, err := url.ParseQuery(queryFrag)
			if err != nil {
				return nil, err
			}
			for k, v := range parsed {
				for _, v2 := range v {
					queryValues.Add(k, v2)
				}
			}
		}
		queryURL.RawQuery = queryValues.Encode()
	}

	return http.NewRequestWithContext(ctx, method, queryURL.String(), body)
}

func (c *Client) applyEditors(ctx context.Context, req *http.Request) error {
	for _, r := range c.RequestEditors {
		if err := r(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// do sends req and returns the body of a 2xx response. Anything else,
// including transport failures, comes back as *APIError.
func (c *Client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := c.applyEditors(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// url.Error repeats the full URL, credentials included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, &APIError{Message: fmt.Sprintf("%s %s: %v", req.Method, req.URL.Host, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("reading response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, op string, params []queryParam, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, op, params, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Message: fmt.Sprintf("decoding %s response: %v", op, err)}
	}
	return nil
}

func (c *Client) getText(ctx context.Context, op string, params []queryParam) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, op, params, nil)
	if err != nil {
		return "", err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func decodeMachines(raw json.RawMessage) (*OrderedMap[MachineDef], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var out OrderedMap[MachineDef]
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, &APIError{Message: fmt.Sprintf("decoding machines response: %v", err)}
		}
		return &out, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decoding machines response: %v", err)}
	}
	out := NewOrderedMap[MachineDef]()
	for _, item := range items {
		var named struct {
			Name string `json:"name"`
		}
		var mc MachineDef
		if err := json.Unmarshal(item, &named); err != nil {
			return nil, &APIError{Message: fmt.Sprintf("decoding machines response: %v", err)}
		}
		if err := json.Unmarshal(item, &mc); err != nil {
			return nil, &APIError{Message: fmt.Sprintf("decoding machines response: %v", err)}
		}
		out.setRaw(named.Name, mc, item)
	}
	return out, nil
}
