package cmsispp

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/goplus/cmsispp/internal/env"
	"github.com/goplus/cmsispp/internal/lockedfile"
	"github.com/qiniu/x/log"
)

const (
	ConfHeaderName   = "cmsispp_conf.h"
	ConfTemplateName = "cmsispp_conf_template.h"
)

// EnsureConfHeader makes sure include/cmsispp_conf.h exists, copying it from
// the template on first use. It reports whether a new header was written.
// An existing header is never touched.
func EnsureConfHeader(l Layout) (generated bool, err error) {
	header, template := l.ConfHeader(), l.ConfTemplate()
	if isFile(header) {
		return false, nil
	}
	if !isFile(template) {
		return false, &MissingError{What: "configuration header template " + ConfTemplateName, Path: l.Include()}
	}

	lockFile, err := confLockPath(l.Include())
	if err != nil {
		return false, err
	}
	unlock, err := lockedfile.MutexAt(lockFile).Lock()
	if err != nil {
		return false, err
	}
	defer unlock()

	// Another build may have generated it while we waited.
	if isFile(header) {
		return false, nil
	}
	if err := copyFile(header, template); err != nil {
		return false, err
	}
	log.Infof("generated %s: %s", ConfHeaderName, header)
	return true, nil
}

// confLockPath returns the lock file guarding header generation in
// includeDir. It lives in the user cache dir, keyed by the absolute include
// path, so the framework tree only ever gains the header itself.
func confLockPath(includeDir string) (string, error) {
	abs, err := filepath.Abs(includeDir)
	if err != nil {
		return "", err
	}
	cacheDir, err := env.CacheDir()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(cacheDir, "conf-"+hex.EncodeToString(sum[:8])+".lock"), nil
}

// copyFile copies src to dst through a temporary file in dst's directory so
// dst never appears partially written.
func copyFile(dst, src string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".cmsispp_conf-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Chmod(fi.Mode().Perm()); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
