// Package buildinfo holds build-time metadata set with
// -ldflags "-X github.com/msgames/cursos-bot-go/internal/buildinfo.Version=v1.2.3".
package buildinfo

var (
	Version   = "" // tag or semantic version
	Commit    = "" // git SHA
	BuildDate = "" // RFC3339
)

// Release returns "<service>@<version>", with "dev" for untagged builds.
func Release(service string) string {
	if Version == "" {
		return service + "@dev"
	}
	return service + "@" + Version
}

// Fields returns the set values for structured logging.
func Fields() map[string]any {
	fields := map[string]any{"version": Version}
	if fields["version"] == "" {
		fields["version"] = "dev"
	}
	if Commit != "" {
		fields["commit"] = Commit
	}
	if BuildDate != "" {
		fields["build_date"] = BuildDate
	}
	return fields
}
