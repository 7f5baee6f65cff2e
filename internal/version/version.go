// Package version holds build metadata injected via ldflags.
package version

// Set at build time with:
//
//	-ldflags "-X github.com/sydlexius/cratediff/internal/version.Version=v1.2.3 \
//	          -X github.com/sydlexius/cratediff/internal/version.Commit=abc1234"
var (
	Version = "dev"
	Commit  = "unknown"
)
