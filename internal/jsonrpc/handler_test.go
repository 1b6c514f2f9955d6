package jsonrpc

import (
	"context"
	"encoding/json"
	"testing"
)

func TestHandle_Dispatch(t *testing.T) {
	h := NewHandler()
	h.Register("echo", func(ctx context.Context, params json.RawMessage) (any, *RPCError) {
		var v map[string]string
		if err := json.Unmarshal(params, &v); err != nil {
			return nil, &RPCError{Code: ErrInvalidParams, Message: err.Error()}
		}
		return v, nil
	})

	resp := h.Handle(context.Background(), Request{
		JSONRPC: "2.0",
		Method:  "echo",
		Params:  json.RawMessage(`{"hello":"world"}`),
		ID:      float64(1),
	})

	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}
	if resp.JSONRPC != "2.0" || resp.ID != float64(1) {
		t.Errorf("envelope = %+v", resp)
	}
	result, ok := resp.Result.(map[string]string)
	if !ok || result["hello"] != "world" {
		t.Errorf("result = %+v", resp.Result)
	}
}

func TestHandle_MethodNotFound(t *testing.T) {
	h := NewHandler()
	resp := h.Handle(context.Background(), Request{JSONRPC: "2.0", Method: "nope", ID: 1})
	if resp.Error == nil || resp.Error.Code != ErrMethodNotFound {
		t.Errorf("expected method-not-found, got %+v", resp)
	}
}

func TestHandle_InvalidRequest(t *testing.T) {
	h := NewHandler()
	cases := []Request{
		{JSONRPC: "1.0", Method: "echo"},
		{JSONRPC: "2.0", Method: ""},
	}
	for i, req := range cases {
		resp := h.Handle(context.Background(), req)
		if resp.Error == nil || resp.Error.Code != ErrInvalidRequest {
			t.Errorf("case %d: expected invalid-request, got %+v", i, resp)
		}
	}
}

func TestHandle_HandlerError(t *testing.T) {
	h := NewHandler()
	h.Register("fail", func(ctx context.Context, params json.RawMessage) (any, *RPCError) {
		return nil, &RPCError{Code: ErrValidation, Message: "bad dates"}
	})

	resp := h.Handle(context.Background(), Request{JSONRPC: "2.0", Method: "fail", ID: 2})
	if resp.Error == nil || resp.Error.Code != ErrValidation || resp.Error.Message != "bad dates" {
		t.Errorf("error = %+v", resp.Error)
	}
	if resp.Result != nil {
		t.Error("result should be nil on error")
	}
}
