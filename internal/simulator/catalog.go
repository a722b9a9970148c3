package simulator

import "github.com/iossim-mcp/ios-simulator-mcp/internal/domain"

const (
	ToolListDevices    = "list_devices"
	ToolBootDevice     = "boot_device"
	ToolShutdownDevice = "shutdown_device"
	ToolInstallApp     = "install_app"
	ToolLaunchApp      = "launch_app"
	ToolBuildAndRun    = "build_and_run"
	ToolGetAppStatus   = "get_app_status"

	defaultDeviceID = "booted"
)

var catalog = staticTools()

// Catalog returns the tools exposed by tools/list, in display order.
// Each call returns a fresh copy, so callers may modify the result.
func Catalog() []domain.ToolSpec {
	out := make([]domain.ToolSpec, len(catalog))
	for i, spec := range catalog {
		props := make(map[string]domain.Property, len(spec.InputSchema.Properties))
		for name, prop := range spec.InputSchema.Properties {
			props[name] = prop
		}
		spec.InputSchema.Properties = props
		spec.InputSchema.Required = append([]string{}, spec.InputSchema.Required...)
		out[i] = spec
	}
	return out
}

func lookupTool(name string) (domain.ToolSpec, bool) {
	for _, spec := range catalog {
		if spec.Name == name {
			return spec, true
		}
	}
	return domain.ToolSpec{}, false
}

func stringProp(description string) domain.Property {
	return domain.Property{Type: "string", Description: description}
}

func staticTools() []domain.ToolSpec {
	deviceID := stringProp("Simulator device UDID, or 'booted' for the currently booted device.")
	bundleID := stringProp("Bundle identifier of the app, e.g. com.example.MyApp.")

	return []domain.ToolSpec{
		{
			Name:        ToolListDevices,
			Description: "List the available iOS simulator devices as JSON.",
			InputSchema: domain.InputSchema{
				Type:       "object",
				Properties: map[string]domain.Property{},
				Required:   []string{},
			},
		},
		{
			Name:        ToolBootDevice,
			Description: "Boot the given simulator device.",
			InputSchema: domain.InputSchema{
				Type: "object",
				Properties: map[string]domain.Property{
					"device_id": stringProp("Simulator device UDID or device name."),
				},
				Required: []string{"device_id"},
			},
		},
		{
			Name:        ToolShutdownDevice,
			Description: "Shut down the given simulator device.",
			InputSchema: domain.InputSchema{
				Type: "object",
				Properties: map[string]domain.Property{
					"device_id": deviceID,
				},
				Required: []string{"device_id"},
			},
		},
		{
			Name:        ToolInstallApp,
			Description: "Install an app bundle on a simulator device.",
			InputSchema: domain.InputSchema{
				Type: "object",
				Properties: map[string]domain.Property{
					"device_id": deviceID,
					"app_path":  stringProp("Path to the .app bundle to install."),
				},
				Required: []string{"device_id", "app_path"},
			},
		},
		{
			Name:        ToolLaunchApp,
			Description: "Launch an installed app on a simulator device.",
			InputSchema: domain.InputSchema{
				Type: "object",
				Properties: map[string]domain.Property{
					"device_id": deviceID,
					"bundle_id": bundleID,
				},
				Required: []string{"device_id", "bundle_id"},
			},
		},
		{
			Name:        ToolBuildAndRun,
			Description: "Build an Xcode project scheme for the iOS Simulator.",
			InputSchema: domain.InputSchema{
				Type: "object",
				Properties: map[string]domain.Property{
					"project_path": stringProp("Path to the .xcodeproj to build."),
					"scheme":       stringProp("Build scheme name."),
					"device_id": {
						Type:        "string",
						Description: deviceID.Description,
						Default:     defaultDeviceID,
					},
				},
				Required: []string{"project_path", "scheme"},
			},
		},
		{
			Name:        ToolGetAppStatus,
			Description: "Report whether an app is currently running on a simulator device.",
			InputSchema: domain.InputSchema{
				Type: "object",
				Properties: map[string]domain.Property{
					"device_id": deviceID,
					"bundle_id": bundleID,
				},
				Required: []string{"device_id", "bundle_id"},
			},
		},
	}
}
