// Package version holds build information for myterm.
package version

import "fmt"

// Version is set at build time via -ldflags "-X .../internal/version.Version=...".
var Version = "development"

// Commit is the git commit the binary was built from.
var Commit = "unknown"

// String returns the version, with the commit appended when known.
func String() string {
	if Commit == "unknown" || Commit == "" {
		return Version
	}
	return Version + "+" + Commit
}

// Banner is the one-line identification printed by `myterm version`.
func Banner() string {
	return fmt.Sprintf("myterm %s", String())
}
