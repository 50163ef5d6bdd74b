package version

// Version information set at build time via ldflags
var (
	// Name is the project name reported in banners and user agents
	Name = "arpmon"
	// Version is the semantic version of the build
	Version = "v0.1.0"
)

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// UserAgent returns the user agent sent with outgoing http requests
func UserAgent() string {
	return Name + "/" + Version
}
