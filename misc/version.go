// Package misc keeps build time information about the program.
package misc

import "runtime/debug"

// Set by linker: -X qstools/misc.version=... -X qstools/misc.gitHash=...
var (
	version = "dev"
	gitHash = ""
	appName = "qstools"
)

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns git commit the program was built from, falling back to
// VCS information embedded by the go tool.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}

// GetAppName returns name of the program.
func GetAppName() string {
	return appName
}
