// Package version holds the build version reported by the CLI and its HTTP clients.
package version

// Version is overridden at build time with -ldflags "-X progress/internal/version.Version=...".
var Version = "0.1.0"

// UserAgent is the User-Agent header sent to Supabase and Pushover.
func UserAgent() string {
	return "progress-cli/" + Version
}
