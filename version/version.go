package version

import (
	"fmt"
	"runtime/debug"
)

const unavailable = "unavailable"

// FromBuildInfo describes the running binary: its module version when installed with
// "go install", otherwise the VCS revision it was built from.
func FromBuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return unavailable
	}

	return describe(info)
}

func describe(info *debug.BuildInfo) string {
	var revision, ts string

	modified := false

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			ts = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		default:
		}
	}

	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	if revision == "" {
		return unavailable
	}

	if len(revision) > 12 {
		revision = revision[:12]
	}

	if modified {
		revision += "-dirty"
	}

	if ts == "" {
		return fmt.Sprintf("devel %s", revision)
	}

	return fmt.Sprintf("devel %s (%s)", revision, ts)
}
