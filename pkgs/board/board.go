package board

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config is a PlatformIO board manifest. Values are looked up with dotted
// paths such as "build.mcu".
type Config struct {
	ID     string
	values map[string]any
}

// New creates a board config from flat dotted keys, e.g. {"build.mcu": "stm32f407vgt6"}.
func New(id string, values map[string]string) *Config {
	c := &Config{ID: id, values: map[string]any{}}
	for k, v := range values {
		c.Set(k, v)
	}
	return c
}

// Load parses a board manifest. If data is nil the manifest is read from file.
func Load(file string, data []byte) (*Config, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewReader(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var values map[string]any
	dec := json.NewDecoder(reader)
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("board: parse %s: %w", file, err)
	}
	if values == nil {
		values = map[string]any{}
	}

	id := ""
	if file != "" {
		id = strings.TrimSuffix(baseName(file), ".json")
	}
	return &Config{ID: id, values: values}, nil
}

// Get returns the string value at the dotted path, or def if the path is
// missing or does not hold a scalar.
func (c *Config) Get(path, def string) string {
	if c == nil {
		return def
	}
	var cur any = c.values
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		if cur, ok = m[key]; !ok {
			return def
		}
	}
	switch v := cur.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return def
}

// MCU returns the case-normalized chip identifier from "build.mcu".
func (c *Config) MCU() string {
	return strings.ToUpper(strings.TrimSpace(c.Get("build.mcu", "")))
}

// Set stores val at the dotted path, creating intermediate objects.
func (c *Config) Set(path, val string) {
	if c.values == nil {
		c.values = map[string]any{}
	}
	keys := strings.Split(path, ".")
	m := c.values
	for _, key := range keys[:len(keys)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = val
}

func baseName(file string) string {
	if i := strings.LastIndexAny(file, `/\`); i >= 0 {
		return file[i+1:]
	}
	return file
}
