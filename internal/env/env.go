package env

import (
	"os"
	"path/filepath"
)

// FrameworkName is the PlatformIO package name of the framework.
const FrameworkName = "framework-cmsispp"

// PackagesDir returns the PlatformIO packages directory under the user's home.
func PackagesDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".platformio", "packages"), nil
}

// FrameworkDir returns the default framework root. It is only a default:
// callers accept an explicit root and fall back to this.
func FrameworkDir() (string, error) {
	packagesDir, err := PackagesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(packagesDir, FrameworkName), nil
}

// CacheDir returns the cmsispp directory under the user cache dir, creating
// it if needed. Lock files live here so nothing extra lands in the framework.
func CacheDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(userCacheDir, "cmsispp")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
