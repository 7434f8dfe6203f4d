// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X github.com/polyfocus/polyfocus-bot/internal/version.Version=1.2.0 \
//	                   -X github.com/polyfocus/polyfocus-bot/internal/version.Commit=$(git rev-parse --short HEAD)" \
//	         ./cmd/polybot
package version

var (
	Version = "dev"
	Commit  = "unknown"
)

// String returns "<version> (<commit>)".
func String() string {
	return Version + " (" + Commit + ")"
}

// UserAgent identifies the bot to upstream APIs.
func UserAgent() string {
	return "polybot/" + Version
}
