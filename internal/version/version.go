// Package version carries build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
	BuiltBy = "source"
)

// GetVersion returns the release version, "dev" for local builds
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// GetFullVersion describes the build for `mscan version -v`
func GetFullVersion() string {
	return fmt.Sprintf("mscan %s\n  commit:   %s\n  built:    %s by %s\n  go:       %s %s/%s",
		GetVersion(), Commit, Date, BuiltBy, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
