package version

import (
	"fmt"
	"runtime/debug"
)

// Заполняются через -ldflags "-X .../internal/version.Version=..."
var (
	Version     string
	BuildCommit string
	BuildDate   string // YYYY-MM-DD (UTC)
)

// VersionInfo describes the build metadata in structured form.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

// Info returns structured version information.
// Values not set through ldflags are taken from the embedded VCS stamp.
func Info() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		Commit:    BuildCommit,
		BuildDate: BuildDate,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}

func fillFromBuildInfo(info *VersionInfo, bi *debug.BuildInfo) {
	info.GoVersion = bi.GoVersion
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" && len(s.Value) >= 10 {
				info.BuildDate = s.Value[:10]
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

// String returns a human-readable build string.
func String() string {
	info := Info()

	commit := coalesce(info.Commit, "unknown")
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if info.Modified {
		commit += "+dirty"
	}

	return fmt.Sprintf("dungeongen %s (%s) commit[%s]",
		info.Version,
		coalesce(info.BuildDate, "unknown date"),
		commit,
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
