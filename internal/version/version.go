package version

// Values for these are injected by the build
var (
	version = "devel"
	commit  string
)

// Version returns the jobboard version. This is typically a semantic version,
// but in the case of unreleased code, could be another descriptor such as
// "devel".
func Version() string {
	return version
}

// Commit returns the git commit SHA the jobboard binaries were built from.
func Commit() string {
	return commit
}
