// Package version exposes the build's version and commit strings.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version and Commit are normally stamped by the release build:
//
//	go build -ldflags="-X github.com/formdrop/formdrop/internal/version.Version=v1.2.3 \
//	                   -X github.com/formdrop/formdrop/internal/version.Commit=abc123"
//
// A plain `go build` leaves them empty, in which case init fills them
// from the module's embedded VCS info, or a dev placeholder when even
// that is missing (e.g. `go run` outside a checkout).
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		readBuildInfo()
	}
	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// readBuildInfo fills unset values from the VCS stamps Go embeds when
// building inside a git checkout. Tags are not part of build info, so
// Version falls back to a dev string dated by the commit time.
func readBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	settings := map[string]string{}
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if Commit == "" {
		if rev := settings["vcs.revision"]; rev != "" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			if settings["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			Commit = rev
		}
	}

	if Version == "" {
		if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}
}
