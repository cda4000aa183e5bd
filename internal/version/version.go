package version

// Version is the current readmeforge release. Bump it on every release.
const Version = "0.1.0"

// FullVersion returns the version with the v prefix releases are tagged with.
func FullVersion() string {
	return "v" + Version
}
