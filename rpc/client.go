package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Aurorachain/go-opbench/log"
)

// Client represents a connection to an RPC server.
type Client struct {
	idCounter uint32
	endpoint  string
	client    *http.Client

	mu      sync.Mutex // protects headers
	headers http.Header
}

// Dial creates a new client for the given URL. Only http and https endpoints
// are supported.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext creates a new client for the given URL.
//
// The context is accepted for symmetry with the other transports; HTTP clients
// do not connect until the first request.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https":
		return DialHTTP(rawurl)
	default:
		return nil, fmt.Errorf("no known transport for URL scheme %q", u.Scheme)
	}
}

// DialHTTP creates a new RPC client that connects to an RPC server over HTTP.
func DialHTTP(endpoint string) (*Client, error) {
	return DialHTTPWithClient(endpoint, new(http.Client))
}

// DialHTTPWithClient creates a new RPC client that connects to an RPC server
// over HTTP using the provided HTTP Client.
func DialHTTPWithClient(endpoint string, client *http.Client) (*Client, error) {
	if _, err := url.Parse(endpoint); err != nil {
		return nil, err
	}
	headers := make(http.Header)
	headers.Set("accept", contentType)
	headers.Set("content-type", contentType)
	return &Client{endpoint: endpoint, client: client, headers: headers}, nil
}

// SetHeader adds a custom HTTP header to every request.
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	c.headers.Set(key, value)
	c.mu.Unlock()
}

// SetBasicAuth authenticates every request with the given credentials.
func (c *Client) SetBasicAuth(username, password string) {
	req := http.Request{Header: make(http.Header)}
	req.SetBasicAuth(username, password)
	c.SetHeader("authorization", req.Header.Get("authorization"))
}

// Close releases idle connections.
func (c *Client) Close() {
	if t, ok := c.client.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
}

func (c *Client) nextID() json.RawMessage {
	id := atomic.AddUint32(&c.idCounter, 1)
	return []byte(strconv.FormatUint(uint64(id), 10))
}

// Call performs a JSON-RPC call with the given arguments and unmarshals into
// result if no error occurred.
//
// The result must be a pointer so that package json can unmarshal into it. You
// can also pass nil, in which case the result is ignored.
func (c *Client) Call(result interface{}, method string, args ...interface{}) error {
	return c.CallContext(context.Background(), result, method, args...)
}

// CallContext performs a JSON-RPC call with positional arguments.
//
// The context bounds the whole round trip. Cancelling it aborts the HTTP
// request.
func (c *Client) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	params := interface{}(args)
	if len(args) == 0 {
		params = nil
	}
	return c.call(ctx, result, method, params)
}

// CallNamedContext performs a JSON-RPC call passing params as a single object,
// e.g. a map or a struct with json tags, instead of a positional array.
func (c *Client) CallNamedContext(ctx context.Context, result interface{}, method string, params interface{}) error {
	if params == nil {
		params = struct{}{}
	}
	return c.call(ctx, result, method, params)
}

func (c *Client) call(ctx context.Context, result interface{}, method string, params interface{}) error {
	msg, err := c.newMessage(method, params)
	if err != nil {
		return err
	}
	log.Debug("Sending RPC request", "method", method, "id", string(msg.ID))

	resp, err := c.sendHTTP(ctx, msg)
	switch {
	case err != nil:
		return err
	case resp.Error != nil:
		return resp.Error
	case len(resp.Result) == 0:
		return ErrNoResult
	case result == nil:
		return nil
	default:
		return json.Unmarshal(resp.Result, result)
	}
}

func (c *Client) newMessage(method string, params interface{}) (*jsonrpcMessage, error) {
	msg := &jsonrpcMessage{Version: jsonrpcVersion, ID: c.nextID(), Method: method}
	if params != nil {
		var err error
		if msg.Params, err = json.Marshal(params); err != nil {
			return nil, err
		}
	}
	return msg, nil
}
