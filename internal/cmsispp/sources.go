package cmsispp

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"
)

// DefaultSourceExts are the file suffixes compiled from the framework.
var DefaultSourceExts = []string{".c", ".cpp"}

// FindSources walks dirs recursively and returns every file whose name ends
// with one of exts. Files appear in walk order, directory by directory; a file
// reachable from more than one dir is listed once. Missing dirs are skipped.
func FindSources(dirs []string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultSourceExts
	}

	var files []string
	seen := make(map[string]bool)
	for _, dir := range dirs {
		if !isDir(dir) {
			log.Warnf("source directory %s does not exist, skipped", dir)
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !hasAnySuffix(d.Name(), exts) {
				return nil
			}
			path = filepath.Clean(path)
			if seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
