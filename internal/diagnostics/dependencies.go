package diagnostics

import "os/exec"

var lookPath = exec.LookPath

type BinaryStatus struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// DependencyReport lists the external toolchain binaries every tool shells out to.
type DependencyReport struct {
	Xcrun              BinaryStatus `json:"xcrun"`
	Xcodebuild         BinaryStatus `json:"xcodebuild"`
	AllRequiredPresent bool         `json:"all_required_present"`
}

func DetectDependencies() DependencyReport {
	xcrun := detectBinary("xcrun")
	xcodebuild := detectBinary("xcodebuild")

	return DependencyReport{
		Xcrun:              xcrun,
		Xcodebuild:         xcodebuild,
		AllRequiredPresent: xcrun.Found && xcodebuild.Found,
	}
}

func detectBinary(name string) BinaryStatus {
	path, err := lookPath(name)
	if err != nil {
		return BinaryStatus{Found: false}
	}
	return BinaryStatus{Found: true, Path: path}
}
