package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iossim-mcp/ios-simulator-mcp/internal/domain"
	"github.com/iossim-mcp/ios-simulator-mcp/internal/runner"
)

const buildDestination = "generic/platform=iOS Simulator"

type Config struct {
	Runner runner.Runner
	Locale Locale
	Logger *slog.Logger
}

// Dispatcher maps tools/call requests onto simctl and xcodebuild invocations.
// It keeps no state between calls.
type Dispatcher struct {
	runner   runner.Runner
	messages messages
	logger   *slog.Logger
}

func NewDispatcher(cfg Config) *Dispatcher {
	return &Dispatcher{
		runner:   cfg.Runner,
		messages: messagesFor(cfg.Locale),
		logger:   cfg.Logger,
	}
}

// Tools returns the static catalog.
func (d *Dispatcher) Tools() []domain.ToolSpec {
	return Catalog()
}

// Call runs the named tool. Unknown tools produce a plain {"error": ...}
// result value rather than an error; a missing or non-string required
// argument returns *domain.ArgumentError.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	spec, ok := lookupTool(name)
	if !ok {
		return map[string]string{"error": "Unknown tool: " + name}, nil
	}
	if d.runner == nil {
		return nil, fmt.Errorf("%s: command runner is not configured", name)
	}

	values, err := requiredArgs(spec, args)
	if err != nil {
		return nil, err
	}

	callID := uuid.NewString()
	startedAt := time.Now()
	d.log(slog.LevelDebug, "tool_dispatch", slog.String("call_id", callID), slog.String("tool", name))

	var result domain.ToolResult
	switch name {
	case ToolListDevices:
		result = d.listDevices(ctx)
	case ToolBootDevice:
		result = d.simple(ctx, []string{"xcrun", "simctl", "boot", values["device_id"]}, d.messages.bootOK, d.messages.bootFailed)
	case ToolShutdownDevice:
		result = d.simple(ctx, []string{"xcrun", "simctl", "shutdown", values["device_id"]}, d.messages.shutdownOK, d.messages.shutdownFailed)
	case ToolInstallApp:
		result = d.simple(ctx, []string{"xcrun", "simctl", "install", values["device_id"], values["app_path"]}, d.messages.installOK, d.messages.installFailed)
	case ToolLaunchApp:
		result = d.simple(ctx, []string{"xcrun", "simctl", "launch", values["device_id"], values["bundle_id"]}, d.messages.launchOK, d.messages.launchFailed)
	case ToolBuildAndRun:
		deviceID, err := optionalString(name, args, "device_id", defaultDeviceID)
		if err != nil {
			return nil, err
		}
		// Build only. The product is not installed or launched on deviceID.
		d.log(slog.LevelDebug, "build_destination", slog.String("call_id", callID), slog.String("device_id", deviceID))
		result = d.build(ctx, values["project_path"], values["scheme"])
	case ToolGetAppStatus:
		result = d.appStatus(ctx, values["device_id"], values["bundle_id"])
	default:
		return nil, fmt.Errorf("%s: tool has no command mapping", name)
	}

	d.log(
		slog.LevelDebug,
		"tool_result",
		slog.String("call_id", callID),
		slog.String("tool", name),
		slog.Bool("is_error", result.IsError),
		slog.Int64("duration_ms", time.Since(startedAt).Milliseconds()),
	)
	return result, nil
}

func (d *Dispatcher) listDevices(ctx context.Context) domain.ToolResult {
	outcome := d.runner.Run(ctx, []string{"xcrun", "simctl", "list", "devices", "available", "--json"})
	if !outcome.Success {
		return domain.TextResult(withDetail(d.messages.listFailed, outcome.FailureDetail()), true)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace([]byte(outcome.Stdout)), "", "  "); err != nil {
		return domain.TextResult(withDetail(d.messages.listParseError, outcome.Stdout), true)
	}
	return domain.TextResult(string(unescapeSolidus(pretty.Bytes())), false)
}

// unescapeSolidus rewrites the optional "\/" escape that simctl emits in
// paths as a plain "/". src must be valid JSON.
func unescapeSolidus(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		if src[i] != '\\' || i+1 >= len(src) {
			out = append(out, src[i])
			continue
		}
		if src[i+1] != '/' {
			out = append(out, src[i])
		}
		out = append(out, src[i+1])
		i++
	}
	return out
}

func (d *Dispatcher) simple(ctx context.Context, argv []string, okPhrase, failPhrase string) domain.ToolResult {
	outcome := d.runner.Run(ctx, argv)
	if outcome.Success {
		return domain.TextResult(okPhrase, false)
	}
	return domain.TextResult(withDetail(failPhrase, outcome.FailureDetail()), true)
}

func (d *Dispatcher) build(ctx context.Context, projectPath, scheme string) domain.ToolResult {
	outcome := d.runner.Run(ctx, []string{
		"xcodebuild",
		"-project", projectPath,
		"-scheme", scheme,
		"-destination", buildDestination,
		"build",
	})
	if !outcome.Success {
		return domain.TextResult(withBlock(d.messages.buildFailed, outcome.FailureDetail()), true)
	}
	return domain.TextResult(withBlock(d.messages.buildOK, outcome.Stdout), false)
}

func (d *Dispatcher) appStatus(ctx context.Context, deviceID, bundleID string) domain.ToolResult {
	outcome := d.runner.Run(ctx, []string{"xcrun", "simctl", "spawn", deviceID, "launchctl", "list"})
	if !outcome.Success {
		return domain.TextResult(withDetail(d.messages.statusFailed, outcome.FailureDetail()), true)
	}
	if strings.Contains(outcome.Stdout, bundleID) {
		return domain.TextResult(d.messages.appRunning, false)
	}
	return domain.TextResult(d.messages.appStopped, false)
}

func requiredArgs(spec domain.ToolSpec, args map[string]any) (map[string]string, error) {
	values := make(map[string]string, len(spec.InputSchema.Required))
	for _, field := range spec.InputSchema.Required {
		raw, ok := args[field]
		if !ok {
			return nil, &domain.ArgumentError{Tool: spec.Name, Field: field, Reason: "is required"}
		}
		value, ok := raw.(string)
		if !ok {
			return nil, &domain.ArgumentError{Tool: spec.Name, Field: field, Reason: "must be a string"}
		}
		values[field] = value
	}
	return values, nil
}

func optionalString(tool string, args map[string]any, field, fallback string) (string, error) {
	raw, ok := args[field]
	if !ok || raw == nil {
		return fallback, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", &domain.ArgumentError{Tool: tool, Field: field, Reason: "must be a string"}
	}
	return value, nil
}

func (d *Dispatcher) log(level slog.Level, msg string, attrs ...any) {
	if d == nil || d.logger == nil {
		return
	}
	d.logger.Log(context.Background(), level, msg, attrs...)
}
