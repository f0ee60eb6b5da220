//go:build !linux && !darwin

package platform

// detectOS falls back to unknown on platforms the core agent does not ship
// binaries for.
func detectOS() OS {
	return OSUnknown
}
