package core

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MacOSVersion returns the product version reported by the kernel, e.g.
// "14.5". Empty when the sysctl is unavailable.
func MacOSVersion() string {
	v, err := unix.Sysctl("kern.osproductversion")
	if err != nil {
		return ""
	}
	return v
}

// DarwinRelease returns the Darwin kernel release, e.g. "23.5.0".
func DarwinRelease() string {
	v, err := unix.Sysctl("kern.osrelease")
	if err != nil {
		return ""
	}
	return v
}

// OSVersionString returns a human-readable OS description for the status
// header, e.g. "macOS 14.5 (Darwin 23.5.0)".
func OSVersionString() string {
	product := MacOSVersion()
	release := DarwinRelease()
	switch {
	case product != "" && release != "":
		return fmt.Sprintf("macOS %s (Darwin %s)", product, release)
	case product != "":
		return "macOS " + product
	case release != "":
		return "Darwin " + release
	default:
		return "macOS"
	}
}
