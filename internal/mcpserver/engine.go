package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/iossim-mcp/ios-simulator-mcp/internal/domain"
)

const protocolVersion = "2024-11-05"

// ToolDispatcher executes tools/call requests and supplies the tools/list catalog.
type ToolDispatcher interface {
	Tools() []domain.ToolSpec
	Call(ctx context.Context, name string, args map[string]any) (any, error)
}

// Engine routes one decoded request to a protocol method and builds its response.
type Engine struct {
	serverName    string
	serverVersion string
	dispatcher    ToolDispatcher
	logger        *slog.Logger
}

func NewEngine(cfg Config) *Engine {
	if cfg.ServerName == "" {
		cfg.ServerName = "ios-simulator-mcp"
	}
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	return &Engine{
		serverName:    cfg.ServerName,
		serverVersion: cfg.ServerVersion,
		dispatcher:    cfg.Dispatcher,
		logger:        cfg.Logger,
	}
}

// Handle never fails: errors and panics raised while producing a result are
// reported as -32603 with the request id.
func (e *Engine) Handle(ctx context.Context, req request) (resp response) {
	startedAt := time.Now()
	tool := ""

	defer func() {
		if r := recover(); r != nil {
			resp = errorResponse(req.ID, codeInternalError, fmt.Sprintf("internal error: %v", r))
		}
		errorCode := ""
		if resp.Error != nil {
			errorCode = strconv.Itoa(resp.Error.Code)
		}
		e.logCall(req.Method, tool, startedAt, errorCode)
	}()

	var (
		result any
		err    error
	)
	switch req.Method {
	case "initialize":
		result = e.initialize()
	case "tools/list":
		result = map[string]any{"tools": e.tools()}
	case "tools/call":
		var params toolsCallParams
		params, err = decodeToolCallParams(req.Params)
		if err == nil {
			tool = params.Name
			result, err = e.callTool(ctx, params)
		}
	default:
		return errorResponse(req.ID, codeMethodNotFound, "Method not found: "+req.Method)
	}

	if err != nil {
		return errorResponse(req.ID, codeInternalError, err.Error())
	}
	return response{JSONRPC: jsonrpcVersion, ID: req.ID, Result: result}
}

func (e *Engine) initialize() initializeResult {
	return initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: map[string]any{
			"tools": map[string]any{},
		},
		ServerInfo: map[string]string{
			"name":    e.serverName,
			"version": e.serverVersion,
		},
	}
}

func (e *Engine) tools() []domain.ToolSpec {
	if e.dispatcher == nil {
		return []domain.ToolSpec{}
	}
	return e.dispatcher.Tools()
}

func (e *Engine) callTool(ctx context.Context, params toolsCallParams) (any, error) {
	if e.dispatcher == nil {
		return nil, errors.New("tool dispatcher is not configured")
	}
	return e.dispatcher.Call(ctx, params.Name, params.Arguments)
}

func decodeToolCallParams(raw json.RawMessage) (toolsCallParams, error) {
	var params toolsCallParams
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return params, nil
	}
	if err := json.Unmarshal(trimmed, &params); err != nil {
		return toolsCallParams{}, fmt.Errorf("invalid tools/call params: %w", err)
	}
	return params, nil
}

func (e *Engine) logCall(method, tool string, startedAt time.Time, errorCode string) {
	if e == nil || e.logger == nil {
		return
	}
	level := slog.LevelInfo
	if errorCode != "" {
		level = slog.LevelError
	}

	e.logger.Log(
		context.Background(),
		level,
		"mcp_call",
		slog.String("method", strings.TrimSpace(method)),
		slog.String("tool", strings.TrimSpace(tool)),
		slog.Int64("duration_ms", time.Since(startedAt).Milliseconds()),
		slog.String("error_code", errorCode),
	)
}
