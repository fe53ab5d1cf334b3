package common

import "runtime/debug"

// Version returns the module version, or the short VCS revision for development builds.
func Version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "UNKNOWN"
	}

	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}

	var revision string
	var dirty bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
			if len(revision) > 12 {
				revision = revision[:12]
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if revision != "" {
		if dirty {
			return revision + "-dirty"
		}
		return revision
	}

	if bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "UNKNOWN"
}

// DependencyVersion returns the version of the given module, as recorded in the build info.
func DependencyVersion(path string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "UNKNOWN"
	}

	for _, dep := range bi.Deps {
		if dep.Path == path {
			return dep.Version
		}
	}
	return "UNKNOWN"
}
