package cmsispp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// Manifest is the PlatformIO package.json shipped at the framework root.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// LoadManifest reads <root>/package.json. It returns nil, nil if the
// framework ships none.
func LoadManifest(root string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}
	return &m, nil
}

// CheckVersion reports an error if have is older than minimum. Both are semantic
// versions with or without the leading "v".
func CheckVersion(have, minimum string) error {
	h, m := canonical(have), canonical(minimum)
	if !semver.IsValid(m) {
		return fmt.Errorf("invalid minimum framework version %q", minimum)
	}
	if !semver.IsValid(h) {
		return fmt.Errorf("invalid framework version %q", have)
	}
	if semver.Compare(h, m) < 0 {
		return fmt.Errorf("framework-cmsispp %s is older than the required %s", have, minimum)
	}
	return nil
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
