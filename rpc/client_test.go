package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
)

type echoArgs struct {
	S string `json:"s"`
	N int    `json:"n"`
}

func echoServer(t *testing.T) *testServer {
	return newTestServer(map[string]handlerFunc{
		"test_echo": func(params json.RawMessage) (interface{}, *jsonError) {
			return params, nil
		},
		"test_fail": func(params json.RawMessage) (interface{}, *jsonError) {
			return nil, &jsonError{Code: -32000, Message: "execution failed", Data: "0x00"}
		},
		"test_null": func(params json.RawMessage) (interface{}, *jsonError) {
			return nil, nil
		},
	})
}

func TestClientPositional(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()
	client, err := Dial(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	var resp []interface{}
	if err := client.Call(&resp, "test_echo", "hello", 10, &echoArgs{"world", 1}); err != nil {
		t.Fatal(err)
	}
	want := []interface{}{"hello", float64(10), map[string]interface{}{"s": "world", "n": float64(1)}}
	if !reflect.DeepEqual(resp, want) {
		t.Errorf("incorrect result:\n%s", spew.Sdump(resp))
	}
	req, header := srv.lastRequest()
	if req.Version != "2.0" || string(req.ID) != "1" {
		t.Errorf("unexpected request envelope: %v", req)
	}
	if ct := header.Get("content-type"); ct != contentType {
		t.Errorf("content type %q", ct)
	}
}

func TestClientNamed(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()
	client, _ := Dial(srv.URL)

	var resp echoArgs
	if err := client.CallNamedContext(context.Background(), &resp, "test_echo", &echoArgs{"named", 7}); err != nil {
		t.Fatal(err)
	}
	if resp != (echoArgs{"named", 7}) {
		t.Errorf("incorrect result %+v", resp)
	}

	var empty map[string]interface{}
	if err := client.CallNamedContext(context.Background(), &empty, "test_echo", nil); err != nil {
		t.Fatal(err)
	}
	if req, _ := srv.lastRequest(); string(req.Params) != "{}" {
		t.Errorf("nil params sent as %s", req.Params)
	}
}

func TestClientErrors(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()
	client, _ := Dial(srv.URL)

	err := client.Call(nil, "test_fail")
	rpcErr, ok := err.(Error)
	if !ok {
		t.Fatalf("expected rpc.Error, got %T: %v", err, err)
	}
	if rpcErr.ErrorCode() != -32000 || rpcErr.Error() != "execution failed" {
		t.Errorf("unexpected error %s", spew.Sdump(rpcErr))
	}

	if err := client.Call(nil, "no_such_method"); err == nil || err.(Error).ErrorCode() != -32601 {
		t.Errorf("got %v, want method not found", err)
	}
	if err := client.Call(nil, "test_null"); err != ErrNoResult {
		t.Errorf("got %v, want %v", err, ErrNoResult)
	}
}

func TestClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()
	client, _ := Dial(srv.URL)

	err := client.Call(nil, "brc20_deploy")
	httpErr, ok := err.(HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized || !strings.Contains(httpErr.Error(), "unauthorized") {
		t.Errorf("unexpected error %v", httpErr)
	}
}

func TestClientBasicAuth(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()
	client, _ := Dial(srv.URL)
	client.SetBasicAuth("indexer", "secret")

	if err := client.Call(new(interface{}), "test_echo", 1); err != nil {
		t.Fatal(err)
	}
	_, header := srv.lastRequest()
	req := http.Request{Header: header}
	user, pass, ok := req.BasicAuth()
	if !ok || user != "indexer" || pass != "secret" {
		t.Errorf("got credentials %q/%q (%t)", user, pass, ok)
	}
}

func TestClientCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client, _ := Dial(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := client.CallContext(ctx, nil, "test_echo"); err != context.DeadlineExceeded {
		t.Fatalf("got %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestDialUnsupportedScheme(t *testing.T) {
	if _, err := Dial("ws://localhost:8546"); err == nil {
		t.Fatal("expected error for websocket URL")
	}
}
