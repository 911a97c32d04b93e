package version

import (
	"fmt"
	"runtime/debug"
)

// These are set at build time with -ldflags "-X ...".
var (
	BuildVersion = "dev"
	BuildRef     = "unknown"
	BuildDate    = "unknown"
)

// String returns a one-line description of the running build.
func String() string {
	v := BuildVersion
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return fmt.Sprintf("%s (ref %s, built %s)", v, BuildRef, BuildDate)
}
