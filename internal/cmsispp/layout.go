package cmsispp

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var statFile = os.Stat

// Layout locates the parts of a framework-cmsispp tree:
//
//	<root>/
//	  include/                       # cmsispp_conf.h, cmsispp_conf_template.h
//	  src/
//	  libs/
//	  package.json
//	  cmsis/Core/
//	  cmsis/Device/ST/<family>/      # *.ld, startup_*.s, system sources
type Layout struct {
	Root   string
	Family string
}

func (l Layout) Include() string {
	return filepath.Join(l.Root, "include")
}

func (l Layout) Src() string {
	return filepath.Join(l.Root, "src")
}

func (l Layout) Libs() string {
	return filepath.Join(l.Root, "libs")
}

func (l Layout) Core() string {
	return filepath.Join(l.Root, "cmsis", "Core")
}

func (l Layout) Device() string {
	return filepath.Join(l.Root, filepath.FromSlash(l.DeviceRel()))
}

// DeviceRel returns the device directory relative to the root, slash-separated
// as used in source filters.
func (l Layout) DeviceRel() string {
	return path.Join("cmsis", "Device", "ST", l.Family)
}

func (l Layout) ConfHeader() string {
	return filepath.Join(l.Include(), ConfHeaderName)
}

func (l Layout) ConfTemplate() string {
	return filepath.Join(l.Include(), ConfTemplateName)
}

// Rel returns p relative to the root, slash-separated.
func (l Layout) Rel(p string) (string, error) {
	rel, err := filepath.Rel(l.Root, p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// FamilyOf derives the STM32 device family directory name from an MCU
// identifier: "STM32F407VGT6" gives "STM32F4xx".
func FamilyOf(mcu string) (string, error) {
	mcu = strings.ToUpper(mcu)
	if len(mcu) < 7 || !strings.HasPrefix(mcu, "STM32") {
		return "", fmt.Errorf("cannot derive device family from MCU %q, set it explicitly", mcu)
	}
	return mcu[:7] + "xx", nil
}
