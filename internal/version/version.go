package version

import "fmt"

// Set with -ldflags "-X github.com/sant0-9/carousel/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

func String() string {
	return fmt.Sprintf("carousel version=%s commit=%s build_time=%s", Version, Commit, BuildTime)
}
