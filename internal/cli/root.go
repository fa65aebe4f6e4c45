package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	settingsPath string
	rootCmd      *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "healthexport",
		Short: "Export daily health snapshots into a notes vault",
		Long: `healthexport renders a day of health data as Markdown, properties, JSON or CSV
and writes it into a vault directory using the overwrite, append or update mode.

Settings are read from a YAML file (see "healthexport settings init").`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "", "export settings YAML file (defaults when empty)")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(settingsCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
