package internal

import (
	"fmt"

	"github.com/goplus/cmsispp/internal/cmsispp"
	"github.com/goplus/cmsispp/pkgs/buildenv"
	"github.com/spf13/cobra"
)

var ldscriptCmd = &cobra.Command{
	Use:   "ldscript",
	Short: "Print the linker script selected for the board",
	Args:  cobra.NoArgs,
	RunE:  runLDScript,
}

var startupCmd = &cobra.Command{
	Use:   "startup",
	Short: "Print the startup file selected for the board",
	Args:  cobra.NoArgs,
	RunE:  runStartup,
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the framework sources to compile",
	Args:  cobra.NoArgs,
	RunE:  runSources,
}

var confCmd = &cobra.Command{
	Use:   "conf",
	Short: "Generate cmsispp_conf.h from its template if it does not exist",
	Args:  cobra.NoArgs,
	RunE:  runConf,
}

func init() {
	rootCmd.AddCommand(ldscriptCmd, startupCmd, sourcesCmd, confCmd)
}

// layout resolves the framework layout for the configured board without
// touching the build environment.
func layout() (*buildenv.Environment, cmsispp.Layout, cmsispp.Options, error) {
	e, opts, err := setup()
	if err != nil {
		return nil, cmsispp.Layout{}, opts, err
	}
	family := opts.Family
	if family == "" {
		if family, err = cmsispp.FamilyOf(e.Board().MCU()); err != nil {
			return nil, cmsispp.Layout{}, opts, e.Exit(err)
		}
	}
	return e, cmsispp.Layout{Root: opts.FrameworkDir, Family: family}, opts, nil
}

func runLDScript(cmd *cobra.Command, args []string) error {
	e, l, _, err := layout()
	if err != nil {
		return err
	}
	ld, err := cmsispp.FindLDScript(l.Device(), e.Board().MCU())
	if err != nil {
		return e.Exit(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), ld)
	return nil
}

func runStartup(cmd *cobra.Command, args []string) error {
	e, l, opts, err := layout()
	if err != nil {
		return err
	}
	startup, err := cmsispp.FindStartupFile(l.Device(), e.Board().MCU(), opts.StartupFile)
	if err != nil {
		return e.Exit(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), startup)
	return nil
}

func runSources(cmd *cobra.Command, args []string) error {
	e, l, opts, err := layout()
	if err != nil {
		return err
	}
	sources, err := cmsispp.FindSources([]string{l.Src(), l.Device()}, opts.SourceExts)
	if err != nil {
		return e.Exit(err)
	}
	for _, src := range sources {
		fmt.Fprintln(cmd.OutOrStdout(), src)
	}
	return nil
}

func runConf(cmd *cobra.Command, args []string) error {
	_, opts, err := options()
	if err != nil {
		return err
	}
	l := cmsispp.Layout{Root: opts.FrameworkDir}
	generated, err := cmsispp.EnsureConfHeader(l)
	if err != nil {
		return buildenv.New(nil).Exit(err)
	}
	if generated {
		fmt.Fprintf(cmd.OutOrStdout(), "generated %s\n", l.ConfHeader())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", l.ConfHeader())
	}
	return nil
}
