package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/iossim-mcp/ios-simulator-mcp/internal/buildinfo"
	"github.com/iossim-mcp/ios-simulator-mcp/internal/diagnostics"
	"github.com/iossim-mcp/ios-simulator-mcp/internal/lifecycle"
	"github.com/iossim-mcp/ios-simulator-mcp/internal/mcpserver"
	"github.com/iossim-mcp/ios-simulator-mcp/internal/runner"
	"github.com/iossim-mcp/ios-simulator-mcp/internal/simulator"
)

const serverName = "ios-simulator-mcp"

type selfTestOutput struct {
	Server struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"server"`
	Tools        []string                     `json:"tools"`
	Dependencies diagnostics.DependencyReport `json:"dependencies"`
}

func main() {
	selfTest := flag.Bool("self-test", false, "run toolchain diagnostics then exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(buildinfo.Version)
		return
	}

	if *selfTest {
		out := buildSelfTestOutput(diagnostics.DetectDependencies())
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	runCtx, stopSignals := signal.NotifyContext(context.Background(), lifecycle.TerminationSignals()...)
	defer stopSignals()

	logLevel := parseLogLevel(os.Getenv("IOS_SIM_MCP_LOG_LEVEL"))
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	locale := parseLocale(os.Getenv("IOS_SIM_MCP_LOCALE"))
	logger.Info(
		"mcp_server_start",
		slog.String("server", serverName),
		slog.String("version", buildinfo.Version),
		slog.String("log_level", logLevel.String()),
		slog.String("locale", string(locale)),
	)

	dispatcher := simulator.NewDispatcher(simulator.Config{
		Runner: runner.New(logger),
		Locale: locale,
		Logger: logger,
	})
	srv := mcpserver.New(os.Stdin, os.Stdout, mcpserver.Config{
		ServerName:    serverName,
		ServerVersion: buildinfo.Version,
		Logger:        logger,
		Dispatcher:    dispatcher,
	})

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- srv.Run(runCtx)
	}()

	var runErr error
	select {
	case runErr = <-runErrCh:
	case <-runCtx.Done():
		runErr = runCtx.Err()
	}
	if runErr != nil {
		logger.Warn("mcp_server_stopping", slog.String("reason", runErr.Error()))
	} else {
		logger.Info("mcp_server_stopping", slog.String("reason", "clean_eof"))
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}

func buildSelfTestOutput(deps diagnostics.DependencyReport) selfTestOutput {
	out := selfTestOutput{
		Tools:        []string{},
		Dependencies: deps,
	}
	out.Server.Name = serverName
	out.Server.Version = buildinfo.Version
	for _, tool := range simulator.Catalog() {
		out.Tools = append(out.Tools, tool.Name)
	}
	return out
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "invalid IOS_SIM_MCP_LOG_LEVEL=%q; defaulting to info\n", raw)
		return slog.LevelInfo
	}
}

func parseLocale(raw string) simulator.Locale {
	locale, ok := simulator.ParseLocale(raw)
	if !ok {
		fmt.Fprintf(os.Stderr, "invalid IOS_SIM_MCP_LOCALE=%q; defaulting to en\n", raw)
	}
	return locale
}
