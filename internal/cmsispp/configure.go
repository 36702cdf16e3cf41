package cmsispp

import (
	"context"
	"errors"
	"slices"

	"github.com/goplus/cmsispp/internal/env"
	"github.com/goplus/cmsispp/pkgs/buildenv"
	"github.com/qiniu/x/log"
)

// BaseLibs are linked into every firmware image.
var BaseLibs = []string{"c", "m", "gcc"}

// Options tunes Configure. Zero values select the defaults.
type Options struct {
	// FrameworkDir is the framework root. Defaults to env.FrameworkDir().
	FrameworkDir string
	// Family is the device directory under cmsis/Device/ST. Derived from the MCU by default.
	Family string
	// StartupFile pins the startup file name instead of deriving it from the MCU.
	StartupFile string
	// SourceExts overrides DefaultSourceExts.
	SourceExts []string
	// Libs are linked in addition to BaseLibs.
	Libs []string
	// MinVersion is the oldest acceptable framework version.
	MinVersion string
}

// Result describes what Configure resolved.
type Result struct {
	Layout        Layout
	MCU           string
	Version       string
	LDScript      string
	StartupFile   string
	ConfHeader    string
	ConfGenerated bool
	Sources       []string
}

// Configure wires framework-cmsispp into e for the board e describes. The
// steps run in order and the first failure aborts through e.Exit; nothing
// done before the failure is rolled back.
func Configure(ctx context.Context, e buildenv.Env, opts Options) (*Result, error) {
	res, err := configure(ctx, e, opts)
	if err != nil {
		return nil, e.Exit(err)
	}
	log.Infof("CMSIS++ added to the build (%d sources)", len(res.Sources))
	return res, nil
}

func configure(ctx context.Context, e buildenv.Env, opts Options) (*Result, error) {
	root := opts.FrameworkDir
	if root == "" {
		var err error
		if root, err = env.FrameworkDir(); err != nil {
			return nil, err
		}
	}
	if !isDir(root) {
		return nil, &MissingError{What: env.FrameworkName, Path: root}
	}
	log.Infof("using CMSIS++: %s", root)

	res := &Result{}
	if err := checkManifest(root, opts.MinVersion, res); err != nil {
		return nil, err
	}

	res.MCU = e.Board().MCU()
	if res.MCU == "" {
		return nil, errors.New("board does not declare build.mcu")
	}
	family := opts.Family
	if family == "" {
		var err error
		if family, err = FamilyOf(res.MCU); err != nil {
			return nil, err
		}
	}
	l := Layout{Root: root, Family: family}
	res.Layout = l

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ld, err := FindLDScript(l.Device(), res.MCU)
	if err != nil {
		return nil, err
	}
	res.LDScript = ld
	e.Replace(buildenv.LDScriptPath, ld)

	e.Append(buildenv.CPPPath, l.Include(), l.Src(), l.Core(), l.Device())
	e.Append(buildenv.LibPath, l.Libs())
	e.Append(buildenv.Libs, slices.Concat(BaseLibs, opts.Libs)...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	generated, err := EnsureConfHeader(l)
	if err != nil {
		return nil, err
	}
	res.ConfHeader, res.ConfGenerated = l.ConfHeader(), generated

	startup, err := FindStartupFile(l.Device(), res.MCU, opts.StartupFile)
	if err != nil {
		return nil, err
	}
	rel, err := l.Rel(startup)
	if err != nil {
		return nil, err
	}
	res.StartupFile = startup
	e.AddSrcFilter("+<" + rel + ">")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sources, err := FindSources([]string{l.Src(), l.Device()}, opts.SourceExts)
	if err != nil {
		return nil, err
	}
	res.Sources = sources
	e.AddSrcFilter("+<src/>", "+<"+l.DeviceRel()+"/>")
	e.AddSources(sources...)
	return res, nil
}

func checkManifest(root, minVersion string, res *Result) error {
	m, err := LoadManifest(root)
	if err != nil {
		return err
	}
	if m == nil {
		if minVersion != "" {
			return &MissingError{What: "package.json (needed to check min_version)", Path: root}
		}
		return nil
	}
	res.Version = m.Version
	log.Debugf("framework version %s", m.Version)
	if minVersion == "" {
		return nil
	}
	return CheckVersion(m.Version, minVersion)
}
