package rpc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(params json.RawMessage) (interface{}, *jsonError)

// testServer is a minimal JSON-RPC endpoint dispatching on method name.
type testServer struct {
	*httptest.Server

	mu       sync.Mutex
	methods  map[string]handlerFunc
	requests []*jsonrpcMessage
	headers  []http.Header
}

func newTestServer(methods map[string]handlerFunc) *testServer {
	srv := &testServer{methods: methods}
	router := httprouter.New()
	router.POST("/", srv.serve)
	srv.Server = httptest.NewServer(router)
	return srv
}

func (srv *testServer) serve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req jsonrpcMessage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	srv.mu.Lock()
	srv.requests = append(srv.requests, &req)
	srv.headers = append(srv.headers, r.Header)
	handler, ok := srv.methods[req.Method]
	srv.mu.Unlock()

	resp := &jsonrpcMessage{Version: jsonrpcVersion, ID: req.ID}
	if !ok {
		resp.Error = &jsonError{Code: -32601, Message: "Method not found"}
	} else {
		result, jerr := handler(req.Params)
		if jerr != nil {
			resp.Error = jerr
		} else if result != nil {
			resp.Result, _ = json.Marshal(result)
		}
	}
	w.Header().Set("content-type", contentType)
	json.NewEncoder(w).Encode(resp)
}

func (srv *testServer) lastRequest() (*jsonrpcMessage, http.Header) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	n := len(srv.requests)
	return srv.requests[n-1], srv.headers[n-1]
}
