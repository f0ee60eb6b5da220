// Package platform implements the platform detector (spec.md §4.B): a pure
// function producing the "{arch}-{platform}" triple used to select which
// core-agent binary variant to download and launch.
package platform

import (
	"runtime"
	"strings"
)

// Arch is one of the closed set of architecture identifiers the core agent
// ships binaries for.
type Arch string

const (
	ArchX86_64  Arch = "x86_64"
	ArchI686    Arch = "i686"
	ArchUnknown Arch = "unknown"
)

// OS is one of the closed set of platform identifiers the core agent ships
// binaries for.
type OS string

const (
	OSDarwin    OS = "darwin"
	OSLinuxGNU  OS = "linux-gnu"
	OSLinuxMusl OS = "linux-musl"
	OSUnknown   OS = "unknown"
)

func detectArch() Arch {
	switch runtime.GOARCH {
	case "amd64":
		return ArchX86_64
	case "386":
		return ArchI686
	default:
		return ArchUnknown
	}
}

// DetectTriple returns the "{arch}-{platform}" string for this host. It
// always returns a value in the closed set described by spec.md §4.B, or a
// string beginning with "unknown-".
func DetectTriple() string {
	arch := detectArch()
	os := detectOS()
	return string(arch) + "-" + string(os)
}

// ValidTriple reports whether s parses into a known arch and platform pair,
// per spec.md §4.B's validation rule: split on the first "-", both halves
// must belong to the enumerated sets.
func ValidTriple(s string) bool {
	idx := strings.Index(s, "-")
	if idx < 0 {
		return false
	}
	arch := Arch(s[:idx])
	os := OS(s[idx+1:])
	return validArch(arch) && validOS(os)
}

func validArch(a Arch) bool {
	switch a {
	case ArchX86_64, ArchI686, ArchUnknown:
		return true
	default:
		return false
	}
}

func validOS(o OS) bool {
	switch o {
	case OSDarwin, OSLinuxGNU, OSLinuxMusl, OSUnknown:
		return true
	default:
		return false
	}
}
