//go:build darwin

package platform

// detectOS on Darwin has no libc variant to distinguish.
func detectOS() OS {
	return OSDarwin
}
