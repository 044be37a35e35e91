// Package env holds build-time metadata injected via -ldflags.
package env

// Version, CommitHash and BuildTime default to "dev"/"unknown" for local
// builds; release builds overwrite them with -ldflags
// "-X github.com/ostafen/ecs150fs/internal/env.Version=... ".
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
