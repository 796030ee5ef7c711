//go:build linux

package devices

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// stableLinkDirs holds the udev-managed symlink directories that give
// devices names surviving reboots and re-enumeration. by-id comes
// first because it follows the device across ports.
var stableLinkDirs = []string{"/dev/v4l/by-id", "/dev/v4l/by-path"}

// ResolvePath converts a stable device identifier into a /dev node
// path. Identifiers are symlink names under /dev/v4l/by-id or
// /dev/v4l/by-path; paths already under /dev pass through untouched.
func ResolvePath(id string) (string, error) {
	if strings.HasPrefix(id, "/dev/") {
		return id, nil
	}

	for _, dir := range stableLinkDirs {
		candidate := filepath.Join(dir, id)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no stable symlink found for device ID: %s", id)
}

// StableID returns the symlink name pointing at the given /dev node,
// preferring by-id over by-path. Returns "" when the node has no
// stable name.
func StableID(path string) string {
	for _, dir := range stableLinkDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			link := filepath.Join(dir, entry.Name())
			target, err := os.Readlink(link)
			if err != nil {
				continue
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(dir, target)
			}
			if filepath.Clean(target) == path {
				return entry.Name()
			}
		}
	}
	return ""
}
