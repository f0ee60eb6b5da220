//go:build linux

package platform

import (
	"os"
	"os/exec"
	"strings"
)

// detectOS on Linux distinguishes glibc from musl hosts, since the core
// agent ships separate binaries for each.
func detectOS() OS {
	if isMuslLibc() {
		return OSLinuxMusl
	}
	return OSLinuxGNU
}

// isMuslLibc reports whether the host's dynamic loader is musl rather than
// glibc. musl systems (e.g. Alpine) ship a loader named like
// "/lib/ld-musl-x86_64.so.1"; glibc systems do not.
func isMuslLibc() bool {
	for _, dir := range []string{"/lib", "/lib64", "/usr/lib"} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), "ld-musl-") {
				return true
			}
		}
	}

	// Fall back to probing `ldd --version`, which prints "musl libc" on
	// musl hosts and mentions "GNU" or "glibc" on glibc hosts.
	if path, err := exec.LookPath("ldd"); err == nil {
		out, err := exec.Command(path, "--version").CombinedOutput()
		if err == nil && strings.Contains(strings.ToLower(string(out)), "musl") {
			return true
		}
	}

	return false
}
