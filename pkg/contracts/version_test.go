package contracts

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info("cleaner")
	assert.Equal(t, "cleaner", info.Program)
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, DataFormatVersion, info.DataFormat)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.NotEmpty(t, info.GitCommit)
}

func TestBuildInfoStrings(t *testing.T) {
	info := BuildInfo{Program: "metrics-report", Version: "2.0.0", BuildTime: "t", GitCommit: "abc", GoVersion: "go1.23", Platform: "linux/amd64"}
	assert.Equal(t, "metrics-report v2.0.0", info.Short())
	assert.Equal(t, "metrics-report v2.0.0 (built: t, commit: abc, go: go1.23, linux/amd64)", info.String())
	assert.True(t, strings.HasPrefix(Info("x").String(), "x v"+Version))
}
