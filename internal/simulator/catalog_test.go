package simulator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRequiredFields(t *testing.T) {
	want := map[string][]string{
		ToolListDevices:    {},
		ToolBootDevice:     {"device_id"},
		ToolShutdownDevice: {"device_id"},
		ToolInstallApp:     {"device_id", "app_path"},
		ToolLaunchApp:      {"device_id", "bundle_id"},
		ToolBuildAndRun:    {"project_path", "scheme"},
		ToolGetAppStatus:   {"device_id", "bundle_id"},
	}

	tools := Catalog()
	require.Len(t, tools, len(want))
	for _, spec := range tools {
		required, ok := want[spec.Name]
		require.True(t, ok, "unexpected tool %q", spec.Name)
		assert.Equal(t, required, spec.InputSchema.Required, spec.Name)
		assert.Equal(t, "object", spec.InputSchema.Type)
		assert.NotEmpty(t, spec.Description)
		for _, field := range required {
			assert.Contains(t, spec.InputSchema.Properties, field, spec.Name)
		}
	}
}

func TestCatalogBuildAndRunDefaultDevice(t *testing.T) {
	spec, ok := lookupTool(ToolBuildAndRun)
	require.True(t, ok)

	prop := spec.InputSchema.Properties["device_id"]
	assert.Equal(t, "booted", prop.Default)
	assert.NotContains(t, spec.InputSchema.Required, "device_id")
}

func TestCatalogEncodesEmptyRequiredAsArray(t *testing.T) {
	spec, ok := lookupTool(ToolListDevices)
	require.True(t, ok)

	encoded, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "list_devices",
		"description": "List the available iOS simulator devices as JSON.",
		"inputSchema": {"type": "object", "properties": {}, "required": []}
	}`, string(encoded))
}

func TestCatalogIsStable(t *testing.T) {
	first, err := json.Marshal(Catalog())
	require.NoError(t, err)
	second, err := json.Marshal(Catalog())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestCatalogCopiesAreIndependent(t *testing.T) {
	first := Catalog()
	first[1].InputSchema.Required[0] = "mutated"
	first[1].InputSchema.Properties["extra"] = stringProp("x")

	second := Catalog()
	assert.Equal(t, []string{"device_id"}, second[1].InputSchema.Required)
	assert.NotContains(t, second[1].InputSchema.Properties, "extra")
}
