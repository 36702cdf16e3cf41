package cmsispp

import (
	"fmt"
	"io/fs"
)

// MissingError reports a required file or directory that is absent.
type MissingError struct {
	What string
	Path string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s not found in %s", e.What, e.Path)
}

func (e *MissingError) Unwrap() error {
	return fs.ErrNotExist
}

func isFile(path string) bool {
	fi, err := statFile(path)
	return err == nil && fi.Mode().IsRegular()
}

func isDir(path string) bool {
	fi, err := statFile(path)
	return err == nil && fi.IsDir()
}
