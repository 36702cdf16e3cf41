package cmsispp

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates files (slash-separated, relative to root) with their
// names as content. Names ending in "/" create directories.
func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if f[len(f)-1] == '/' {
			if err := os.MkdirAll(p, 0755); err != nil {
				t.Fatalf("mkdir %s: %v", p, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(f), 0644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

// isolateCache keeps lock files written during the test out of the real
// user cache dir.
func isolateCache(t *testing.T) {
	t.Helper()
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)
	t.Setenv("LocalAppData", cache)
}

// newFramework creates a complete STM32F4xx framework tree.
func newFramework(t *testing.T) string {
	t.Helper()
	isolateCache(t)
	root := t.TempDir()
	writeTree(t, root,
		"package.json",
		"include/cmsispp_conf_template.h",
		"include/cmsispp.h",
		"src/core.cpp",
		"src/gpio/gpio.c",
		"src/gpio/gpio.h",
		"libs/",
		"cmsis/Core/core_cm4.h",
		"cmsis/Device/ST/STM32F4xx/STM32F407.ld",
		"cmsis/Device/ST/STM32F4xx/STM32F429.ld",
		"cmsis/Device/ST/STM32F4xx/startup_stm32f407xx.s",
		"cmsis/Device/ST/STM32F4xx/startup_stm32f429xx.s",
		"cmsis/Device/ST/STM32F4xx/system_stm32f4xx.c",
	)
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"name": "framework-cmsispp", "version": "1.2.0"}`), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}
