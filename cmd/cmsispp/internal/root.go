package internal

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cmsispp",
	Short: "cmsispp wires framework-cmsispp into a firmware build",
	Long: `cmsispp locates the framework-cmsispp package, selects the linker and startup
files for the board's MCU, generates the configuration header and lists the
sources to compile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
