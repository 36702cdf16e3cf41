package cmsispp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"
)

// FindLDScript selects the linker script for mcu from dir.
//
// A *.ld file matches when its name starts with mcu or when its stem is a
// prefix of mcu, so both "STM32F407VG_FLASH.ld" and "STM32F407.ld" serve
// STM32F407VG. A stem must name at least the series (minStemLen characters,
// "STM32F4"), so stubs like "STM32.ld" never match. Comparison ignores case.
// The longest matched prefix wins; ties go to the lexically smallest name.
func FindLDScript(dir, mcu string) (string, error) {
	mcu = strings.ToUpper(mcu)
	if mcu == "" {
		return "", errors.New("linker script lookup needs an MCU identifier")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &MissingError{What: "device directory", Path: dir}
		}
		return "", err
	}

	best, bestScore := "", -1
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".ld") {
			continue
		}
		score := ldScore(strings.ToUpper(name), mcu)
		if score < 0 {
			continue
		}
		log.Debugf("ldscript candidate %s (score %d)", name, score)
		if score > bestScore || (score == bestScore && name < best) {
			best, bestScore = name, score
		}
	}
	if best == "" {
		return "", &MissingError{What: fmt.Sprintf("linker script for %s", mcu), Path: dir}
	}
	return filepath.Join(dir, best), nil
}

// minStemLen is the length of a series designator such as "STM32F4".
const minStemLen = 7

// ldScore returns how many characters of mcu the upper-cased file name
// accounts for, or -1 if it does not match.
func ldScore(name, mcu string) int {
	if strings.HasPrefix(name, mcu) {
		return len(mcu)
	}
	stem := name[:len(name)-len(".ld")]
	if len(stem) >= minStemLen && strings.HasPrefix(mcu, stem) {
		return len(stem)
	}
	return -1
}
