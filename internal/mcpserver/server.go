package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type Config struct {
	ServerName    string
	ServerVersion string
	Logger        *slog.Logger
	Dispatcher    ToolDispatcher
}

// Server reads newline-delimited JSON-RPC requests and answers each with
// exactly one line, strictly in order.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	engine *Engine
	logger *slog.Logger
}

func New(in io.Reader, out io.Writer, cfg Config) *Server {
	return &Server{
		in:     bufio.NewReader(in),
		out:    bufio.NewWriter(out),
		engine: NewEngine(cfg),
		logger: cfg.Logger,
	}
}

// Run returns nil on end of input. Only a failure to read input or write a
// response ends the loop with an error; per-request faults never do.
func (s *Server) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.logLifecycle(slog.LevelInfo, "mcp_context_done", slog.String("reason", ctx.Err().Error()))
			return ctx.Err()
		default:
		}

		s.logLifecycle(slog.LevelDebug, "mcp_read_wait")
		line, err := readLine(s.in)
		if err != nil {
			if err == io.EOF {
				s.logLifecycle(slog.LevelInfo, "mcp_stream_eof")
				return nil
			}
			s.logLifecycle(slog.LevelError, "mcp_read_error", slog.String("error", err.Error()))
			return err
		}

		if err := s.handleLine(ctx, line); err != nil {
			s.logLifecycle(slog.LevelError, "mcp_write_error", slog.String("error", err.Error()))
			return err
		}
	}
}

func (s *Server) handleLine(ctx context.Context, line string) error {
	payload := strings.TrimSpace(line)
	if payload == "" {
		return nil
	}
	s.logLifecycle(slog.LevelDebug, "mcp_message_received", slog.Int("bytes", len(payload)))

	if !json.Valid([]byte(payload)) {
		s.logLifecycle(slog.LevelWarn, "mcp_parse_error")
		return s.send(errorResponse(nil, codeParseError, "Parse error"))
	}

	req, err := decodeRequest([]byte(payload))
	if err != nil {
		s.logLifecycle(slog.LevelWarn, "mcp_invalid_request", slog.String("error", err.Error()))
		return s.send(errorResponse(nil, codeInternalError, fmt.Sprintf("invalid request: %v", err)))
	}

	return s.send(s.engine.Handle(ctx, req))
}

func (s *Server) send(resp response) error {
	encoded, err := json.Marshal(resp)
	if err != nil {
		s.logLifecycle(slog.LevelError, "mcp_encode_error", slog.String("error", err.Error()))
		encoded, err = json.Marshal(errorResponse(nil, codeInternalError, err.Error()))
		if err != nil {
			return err
		}
	}
	s.logLifecycle(slog.LevelDebug, "mcp_send", slog.Int("bytes", len(encoded)))
	return writeJSONLineMessage(s.out, encoded)
}

func (s *Server) logLifecycle(level slog.Level, msg string, attrs ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Log(context.Background(), level, msg, attrs...)
}
