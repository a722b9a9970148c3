package diagnostics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stubLookPath(t *testing.T, found map[string]string) {
	t.Helper()

	orig := lookPath
	t.Cleanup(func() {
		lookPath = orig
	})
	lookPath = func(file string) (string, error) {
		if path, ok := found[file]; ok {
			return path, nil
		}
		return "", errors.New("not found")
	}
}

func TestDetectDependenciesPartial(t *testing.T) {
	stubLookPath(t, map[string]string{"xcrun": "/usr/bin/xcrun"})

	report := DetectDependencies()

	assert.Equal(t, BinaryStatus{Found: true, Path: "/usr/bin/xcrun"}, report.Xcrun)
	assert.Equal(t, BinaryStatus{}, report.Xcodebuild)
	assert.False(t, report.AllRequiredPresent)
}

func TestDetectDependenciesAllPresent(t *testing.T) {
	stubLookPath(t, map[string]string{
		"xcrun":      "/usr/bin/xcrun",
		"xcodebuild": "/usr/bin/xcodebuild",
	})

	report := DetectDependencies()

	assert.True(t, report.AllRequiredPresent)
	assert.Equal(t, "/usr/bin/xcodebuild", report.Xcodebuild.Path)
}
