package internal

import (
	"fmt"
	"io"
	"strings"

	"github.com/goplus/cmsispp/internal/cmsispp"
	"github.com/goplus/cmsispp/pkgs/buildenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var configureFormat string

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure the build and print the resulting environment",
	Long: `Configure runs every step against the framework and prints the build
environment: linker script, include and library paths, link libraries,
source filters and the sources to compile.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVarP(&configureFormat, "format", "f", "json", "Output format: json, table or scons")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	e, opts, err := setup()
	if err != nil {
		return err
	}
	if _, err := cmsispp.Configure(cmd.Context(), e, opts); err != nil {
		return err
	}
	return writeEnv(cmd.OutOrStdout(), e, configureFormat)
}

func writeEnv(w io.Writer, e *buildenv.Environment, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return e.WriteJSON(w)
	case "scons":
		return e.WriteSCons(w)
	case "table":
		writeTable(w, e)
		return nil
	}
	return fmt.Errorf("unknown format %q, want json, table or scons", format)
}

func writeTable(w io.Writer, e *buildenv.Environment) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Variable", "Value"})
	table.SetAutoWrapText(false)
	table.SetAutoMergeCells(true)
	table.SetRowLine(true)
	for _, key := range e.Keys() {
		for _, v := range e.Get(key) {
			table.Append([]string{key, v})
		}
	}
	for _, src := range e.Sources() {
		table.Append([]string{"SOURCES", src})
	}
	table.Render()
}
