package version

import "fmt"

var (
	// Version is the release, set with -ldflags "-X .../version.Version=...".
	Version = "0.3.0"
	// Commit is the short git SHA of the build.
	Commit = "none"
	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// Short returns Version alone.
func Short() string {
	return Version
}

// Full returns the release line printed by the version subcommand.
func Full() string {
	return fmt.Sprintf("morse-beacon %s (commit %s, built %s)", Version, Commit, BuildTime)
}

// UserAgent is the gRPC user agent announced by the command-line tools.
func UserAgent(tool string) string {
	return tool + "/" + Version
}
