// Package config loads the optional per-project cmsispp.yml file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the default project configuration file name.
const FileName = "cmsispp.yml"

// Config holds project-level overrides. Zero values mean "use the default".
type Config struct {
	FrameworkDir string   `yaml:"framework_dir"`
	Board        string   `yaml:"board"`
	MCU          string   `yaml:"mcu"`
	Family       string   `yaml:"family"`
	StartupFile  string   `yaml:"startup_file"`
	SourceExts   []string `yaml:"source_exts"`
	Libs         []string `yaml:"libs"`
	MinVersion   string   `yaml:"min_version"`
}

// Load reads the configuration at path. A missing file yields an empty
// Config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a configuration document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}
