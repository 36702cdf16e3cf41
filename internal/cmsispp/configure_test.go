package cmsispp

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goplus/cmsispp/pkgs/board"
	"github.com/goplus/cmsispp/pkgs/buildenv"
)

func newEnv(mcu string) *buildenv.Environment {
	return buildenv.New(board.New("disco", map[string]string{"build.mcu": mcu}))
}

func TestConfigure(t *testing.T) {
	root := newFramework(t)
	e := newEnv("stm32f407vgt6")

	res, err := Configure(context.Background(), e, Options{FrameworkDir: root})
	if err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	device := filepath.Join(root, "cmsis", "Device", "ST", "STM32F4xx")
	if diff := cmp.Diff([]string{filepath.Join(device, "STM32F407.ld")}, e.Get(buildenv.LDScriptPath)); diff != "" {
		t.Errorf("LDSCRIPT_PATH mismatch (-want +got):\n%s", diff)
	}
	wantCPP := []string{
		filepath.Join(root, "include"),
		filepath.Join(root, "src"),
		filepath.Join(root, "cmsis", "Core"),
		device,
	}
	if diff := cmp.Diff(wantCPP, e.Get(buildenv.CPPPath)); diff != "" {
		t.Errorf("CPPPATH mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{filepath.Join(root, "libs")}, e.Get(buildenv.LibPath)); diff != "" {
		t.Errorf("LIBPATH mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c", "m", "gcc"}, e.Get(buildenv.Libs)); diff != "" {
		t.Errorf("LIBS mismatch (-want +got):\n%s", diff)
	}
	wantFilter := []string{
		"+<cmsis/Device/ST/STM32F4xx/startup_stm32f407xx.s>",
		"+<src/>",
		"+<cmsis/Device/ST/STM32F4xx/>",
	}
	if diff := cmp.Diff(wantFilter, e.Get(buildenv.SrcFilter)); diff != "" {
		t.Errorf("SRC_FILTER mismatch (-want +got):\n%s", diff)
	}
	wantSources := []string{
		filepath.Join(root, "src", "core.cpp"),
		filepath.Join(root, "src", "gpio", "gpio.c"),
		filepath.Join(device, "system_stm32f4xx.c"),
	}
	if diff := cmp.Diff(wantSources, e.Sources()); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}

	if !res.ConfGenerated {
		t.Error("ConfGenerated = false on first run")
	}
	if _, err := os.Stat(filepath.Join(root, "include", "cmsispp_conf.h")); err != nil {
		t.Errorf("configuration header missing: %v", err)
	}
	if res.MCU != "STM32F407VGT6" || res.Version != "1.2.0" {
		t.Errorf("Result = %+v", res)
	}
}

func TestConfigure_SecondRun(t *testing.T) {
	root := newFramework(t)

	if _, err := Configure(context.Background(), newEnv("stm32f429zit6"), Options{FrameworkDir: root}); err != nil {
		t.Fatal(err)
	}
	e := newEnv("stm32f429zit6")
	res, err := Configure(context.Background(), e, Options{FrameworkDir: root, Libs: []string{"nosys"}})
	if err != nil {
		t.Fatalf("second Configure() error = %v", err)
	}
	if res.ConfGenerated {
		t.Error("ConfGenerated = true on second run")
	}
	if got := filepath.Base(res.LDScript); got != "STM32F429.ld" {
		t.Errorf("LDScript = %q, want STM32F429.ld", got)
	}
	if got := filepath.Base(res.StartupFile); got != "startup_stm32f429xx.s" {
		t.Errorf("StartupFile = %q, want startup_stm32f429xx.s", got)
	}
	if diff := cmp.Diff([]string{"c", "m", "gcc", "nosys"}, e.Get(buildenv.Libs)); diff != "" {
		t.Errorf("LIBS mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigure_LibsExcludeSources(t *testing.T) {
	root := newFramework(t)
	e := newEnv("stm32f407vgt6")

	if _, err := Configure(context.Background(), e, Options{FrameworkDir: root}); err != nil {
		t.Fatal(err)
	}
	libs := e.Get(buildenv.Libs)
	for _, src := range e.Sources() {
		if slices.Contains(libs, src) {
			t.Errorf("source %s listed in LIBS", src)
		}
	}
}

func TestConfigure_Aborts(t *testing.T) {
	tests := []struct {
		name  string
		mcu   string
		setup func(t *testing.T, root string) string
		opts  Options
	}{
		{
			name: "framework missing",
			mcu:  "stm32f407vgt6",
			setup: func(t *testing.T, root string) string {
				return filepath.Join(root, "nope")
			},
		},
		{
			name: "no linker script",
			mcu:  "stm32f446re",
			setup: func(t *testing.T, root string) string {
				return root
			},
		},
		{
			name: "no template",
			mcu:  "stm32f407vgt6",
			setup: func(t *testing.T, root string) string {
				if err := os.Remove(filepath.Join(root, "include", ConfTemplateName)); err != nil {
					t.Fatal(err)
				}
				return root
			},
		},
		{
			name: "no startup file",
			mcu:  "stm32f407vgt6",
			setup: func(t *testing.T, root string) string {
				if err := os.Remove(filepath.Join(root, "cmsis", "Device", "ST", "STM32F4xx", "startup_stm32f407xx.s")); err != nil {
					t.Fatal(err)
				}
				return root
			},
		},
		{
			name: "family directory missing",
			mcu:  "stm32f746zg",
			setup: func(t *testing.T, root string) string {
				return root
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.FrameworkDir = tt.setup(t, newFramework(t))

			res, err := Configure(context.Background(), newEnv(tt.mcu), opts)
			if res != nil {
				t.Errorf("Configure() result = %+v, want nil", res)
			}
			var abort *buildenv.AbortError
			if !errors.As(err, &abort) {
				t.Fatalf("Configure() error = %v, want *buildenv.AbortError", err)
			}
			if !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("Configure() error = %v, want a missing-file error", err)
			}
		})
	}
}

func TestConfigure_NoMCU(t *testing.T) {
	root := newFramework(t)
	e := buildenv.New(board.New("bare", nil))

	_, err := Configure(context.Background(), e, Options{FrameworkDir: root})
	var abort *buildenv.AbortError
	if !errors.As(err, &abort) {
		t.Fatalf("Configure() error = %v, want *buildenv.AbortError", err)
	}
}

func TestConfigure_MinVersion(t *testing.T) {
	root := newFramework(t)

	if _, err := Configure(context.Background(), newEnv("stm32f407vgt6"), Options{FrameworkDir: root, MinVersion: "1.0.0"}); err != nil {
		t.Fatalf("Configure() with satisfied min version error = %v", err)
	}
	if _, err := Configure(context.Background(), newEnv("stm32f407vgt6"), Options{FrameworkDir: root, MinVersion: "2.0.0"}); err == nil {
		t.Fatal("Configure() with unsatisfied min version should fail")
	}
}

func TestConfigure_Canceled(t *testing.T) {
	root := newFramework(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Configure(ctx, newEnv("stm32f407vgt6"), Options{FrameworkDir: root})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Configure() error = %v, want context.Canceled", err)
	}
}

func TestConfigure_DefaultFrameworkDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	_, err := Configure(context.Background(), newEnv("stm32f407vgt6"), Options{})
	var missing *MissingError
	if !errors.As(err, &missing) {
		t.Fatalf("Configure() error = %v, want *MissingError", err)
	}
	if want := filepath.Join(home, ".platformio", "packages", "framework-cmsispp"); missing.Path != want {
		t.Errorf("searched %q, want %q", missing.Path, want)
	}
}
