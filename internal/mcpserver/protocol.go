package mcpserver

import (
	"bytes"
	"encoding/json"
	"errors"
)

const (
	jsonrpcVersion = "2.0"

	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInternalError  = -32603
)

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

var errNotObject = errors.New("request must be a JSON object")

// decodeRequest reads a request field by field so that a malformed method or
// params value never loses the caller's id. A non-string method is kept as
// its raw JSON text and later reported as not found.
func decodeRequest(payload []byte) (request, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return request{}, errNotObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return request{}, err
	}

	req := request{
		ID:     fields["id"],
		Params: fields["params"],
	}
	if raw, ok := fields["jsonrpc"]; ok {
		_ = json.Unmarshal(raw, &req.JSONRPC)
	}
	if raw, ok := fields["method"]; ok {
		if err := json.Unmarshal(raw, &req.Method); err != nil {
			req.Method = string(bytes.TrimSpace(raw))
		}
	}
	return req, nil
}

// response always carries an id; a nil ID encodes as null.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *responseError  `json:"error,omitempty"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type initializeResult struct {
	ProtocolVersion string            `json:"protocolVersion"`
	Capabilities    map[string]any    `json:"capabilities"`
	ServerInfo      map[string]string `json:"serverInfo"`
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

func errorResponse(id json.RawMessage, code int, message string) response {
	return response{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Error: &responseError{
			Code:    code,
			Message: message,
		},
	}
}
