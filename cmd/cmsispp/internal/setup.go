package internal

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/goplus/cmsispp/internal/cmsispp"
	"github.com/goplus/cmsispp/internal/config"
	"github.com/goplus/cmsispp/internal/env"
	"github.com/goplus/cmsispp/pkgs/board"
	"github.com/goplus/cmsispp/pkgs/buildenv"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
)

// Flags shared by every subcommand.
var (
	frameworkDir string
	boardFile    string
	mcuFlag      string
	familyFlag   string
	startupFlag  string
	configFile   string
	verbose      bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&frameworkDir, "framework-dir", "", "Framework root (default ~/.platformio/packages/framework-cmsispp)")
	flags.StringVarP(&boardFile, "board", "b", "", "PlatformIO board manifest (JSON)")
	flags.StringVar(&mcuFlag, "mcu", "", "MCU identifier, overrides the board's build.mcu")
	flags.StringVar(&familyFlag, "family", "", "Device family directory under cmsis/Device/ST (derived from the MCU by default)")
	flags.StringVar(&startupFlag, "startup", "", "Startup file name in the device directory (derived from the MCU by default)")
	flags.StringVarP(&configFile, "config", "c", config.FileName, "Project configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetOutputLevel(log.Ldebug)
		} else {
			log.SetOutputLevel(log.Linfo)
		}
	}
}

// options merges flags over the project configuration file.
func options() (*config.Config, cmsispp.Options, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, cmsispp.Options{}, fmt.Errorf("failed to load %s: %w", configFile, err)
	}

	opts := cmsispp.Options{
		FrameworkDir: pick(frameworkDir, cfg.FrameworkDir),
		Family:       pick(familyFlag, cfg.Family),
		StartupFile:  pick(startupFlag, cfg.StartupFile),
		SourceExts:   cfg.SourceExts,
		Libs:         cfg.Libs,
		MinVersion:   cfg.MinVersion,
	}
	if opts.FrameworkDir == "" {
		opts.FrameworkDir, err = env.FrameworkDir()
	} else {
		opts.FrameworkDir, err = filepath.Abs(opts.FrameworkDir)
	}
	if err != nil {
		return nil, cmsispp.Options{}, err
	}
	return cfg, opts, nil
}

// setup returns the build environment for the configured board together
// with the options to configure it with.
func setup() (*buildenv.Environment, cmsispp.Options, error) {
	cfg, opts, err := options()
	if err != nil {
		return nil, opts, err
	}
	b, err := loadBoard(pick(boardFile, cfg.Board), pick(mcuFlag, cfg.MCU))
	if err != nil {
		return nil, opts, err
	}
	return buildenv.New(b), opts, nil
}

func loadBoard(file, mcu string) (*board.Config, error) {
	if file == "" {
		if mcu == "" {
			return nil, errors.New("no board given, pass --board or --mcu")
		}
		return board.New("", map[string]string{"build.mcu": mcu}), nil
	}
	b, err := board.Load(file, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	if mcu != "" {
		b.Set("build.mcu", mcu)
	}
	return b, nil
}

func pick(flag, fromConfig string) string {
	if flag != "" {
		return flag
	}
	return fromConfig
}
