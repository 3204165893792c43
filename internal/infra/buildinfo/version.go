package buildinfo

import (
	"fmt"
	"io"
	"runtime"
)

// Build-time variables (set via ldflags).
var (
	// Version is the semantic version.
	Version = "dev"

	// Commit is the git commit hash.
	Commit = "unknown"

	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// Info contains build information.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// Get returns the build information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ") built at " + BuildTime
}

// UserAgent returns the User-Agent sent to the gateway.
func UserAgent() string {
	return "blessfleet/" + Version
}

const bannerArt = ` ____  _                 _____ _           _
| __ )| | ___  ___ ___  |  ___| | ___  ___| |_
|  _ \| |/ _ \/ __/ __| | |_  | |/ _ \/ _ \ __|
| |_) | |  __/\__ \__ \ |  _| | |  __/  __/ |_
|____/|_|\___||___/___/ |_|   |_|\___|\___|\__|
`

// Banner writes the startup banner.
func Banner(w io.Writer) {
	fmt.Fprint(w, bannerArt)
	fmt.Fprintf(w, " Version: %s (%s)\n\n", Version, Commit)
}
