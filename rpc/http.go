package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"

	"golang.org/x/net/context/ctxhttp"
)

const (
	contentType = "application/json"

	// maxResponseContentLength bounds the body read from the server.
	maxResponseContentLength = 1024 * 1024 * 16
)

func (c *Client) sendHTTP(ctx context.Context, msg *jsonrpcMessage) (*jsonrpcMessage, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.ContentLength = int64(len(body))

	c.mu.Lock()
	for key, values := range c.headers {
		req.Header[key] = append([]string(nil), values...)
	}
	c.mu.Unlock()

	resp, err := ctxhttp.Do(ctx, c.client, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var buf bytes.Buffer
		io.Copy(&buf, io.LimitReader(resp.Body, 1024))
		return nil, HTTPError{
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
			Body:       buf.Bytes(),
		}
	}
	data, err := ioutil.ReadAll(io.LimitReader(resp.Body, maxResponseContentLength))
	if err != nil {
		return nil, err
	}
	var respmsg jsonrpcMessage
	if err := json.Unmarshal(data, &respmsg); err != nil {
		return nil, err
	}
	return &respmsg, nil
}
