package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const (
	// Version is shared by the command line tools and the API
	Version = "1.0.0"

	// DataFormatVersion identifies the intervention log schema
	DataFormatVersion = "interventions-v1"

	// APIVersion is the prefix of the read API routes
	APIVersion = "v1"
)

// Set with -ldflags "-X maintcli/pkg/contracts.GitCommit=..." at release time.
// When unset, the VCS stamp embedded by the Go toolchain is used.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Program    string `json:"program,omitempty"`
	Version    string `json:"version"`
	BuildTime  string `json:"build_time"`
	GitCommit  string `json:"git_commit"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	DataFormat string `json:"data_format"`
	APIVersion string `json:"api_version"`
}

// Info returns the build information of program
func Info(program string) BuildInfo {
	info := BuildInfo{
		Program:    program,
		Version:    Version,
		BuildTime:  BuildTime,
		GitCommit:  GitCommit,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		DataFormat: DataFormatVersion,
		APIVersion: APIVersion,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "unknown":
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildTime == "unknown":
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

// Short renders "program vX.Y.Z"
func (b BuildInfo) Short() string {
	return fmt.Sprintf("%s v%s", b.Program, b.Version)
}

// String renders the version line printed by -version
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (built: %s, commit: %s, go: %s, %s)",
		b.Short(), b.BuildTime, b.GitCommit, b.GoVersion, b.Platform)
}
