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

// FindStartupFile selects the startup assembly file for mcu from dir.
//
// Startup files are named startup_<part>.s. <part> is matched against the
// start of mcu one character at a time and every x in it matches any
// character, so startup_stm32f407xx.s serves STM32F407VG and
// startup_stm32f401xe.s serves STM32F401RET6. A part longer than mcu never
// matches. The file with the most literal characters wins; ties go to the
// lexically smallest name. If name is non-empty it is used as is and only
// checked for existence.
func FindStartupFile(dir, mcu, name string) (string, error) {
	if name != "" {
		p := filepath.Join(dir, name)
		if !isFile(p) {
			return "", &MissingError{What: "startup file " + name, Path: dir}
		}
		return p, nil
	}

	mcu = strings.ToLower(mcu)
	if mcu == "" {
		return "", errors.New("startup file lookup needs an MCU identifier")
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
		part, ok := startupPart(entry)
		if !ok {
			continue
		}
		score := partScore(part, mcu)
		if score < 0 {
			continue
		}
		log.Debugf("startup candidate %s (score %d)", entry.Name(), score)
		if score > bestScore || (score == bestScore && entry.Name() < best) {
			best, bestScore = entry.Name(), score
		}
	}
	if best == "" {
		return "", &MissingError{What: fmt.Sprintf("startup file for %s", strings.ToUpper(mcu)), Path: dir}
	}
	return filepath.Join(dir, best), nil
}

// startupPart returns the lower-cased part-number pattern a startup file serves.
func startupPart(entry fs.DirEntry) (string, bool) {
	if entry.IsDir() {
		return "", false
	}
	name := strings.ToLower(entry.Name())
	if !strings.HasPrefix(name, "startup_") || filepath.Ext(name) != ".s" {
		return "", false
	}
	part := strings.TrimSuffix(strings.TrimPrefix(name, "startup_"), ".s")
	return part, part != ""
}

// partScore matches pattern against the start of the lower-cased mcu, x
// matching any character. It returns the number of literal characters
// matched, or -1 if pattern does not match.
func partScore(pattern, mcu string) int {
	if len(pattern) > len(mcu) {
		return -1
	}
	score := 0
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case 'x':
		case mcu[i]:
			score++
		default:
			return -1
		}
	}
	return score
}
