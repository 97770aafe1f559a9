// Package version reports the library version stamped into dumped
// documents.
package version

import "runtime/debug"

const modulePath = "github.com/tailored-agentic-units/statewire"

// version may be overridden at link time:
//
//	go build -ldflags "-X github.com/tailored-agentic-units/statewire/version.version=v1.2.3"
var version = ""

// Version returns the library version. The link-time value wins, then the
// module version recorded in the build info, then "dev".
func Version() string {
	if version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Path == modulePath && info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		for _, dep := range info.Deps {
			if dep.Path == modulePath {
				return dep.Version
			}
		}
	}

	return "dev"
}
