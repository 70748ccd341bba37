// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// ProjectURL identifies geodex in outbound User-Agent headers, as public geodata services require.
const ProjectURL = "https://github.com/kailas-cloud/geodex"

// UserAgent returns the default User-Agent for upstream calls.
func UserAgent() string {
	return "geodex/" + Version + " (+" + ProjectURL + ")"
}
