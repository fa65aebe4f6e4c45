package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fdg312/health-export/internal/settings"
)

const defaultSettingsFile = "health-export.yaml"

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage export settings",
}

var settingsInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default settings file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultSettingsFile
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if err := initSettings(path, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings (file merged over defaults)",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := loadSettings(settingsPath)
		if err != nil {
			return err
		}
		return showSettings(cmd.OutOrStdout(), prefs)
	},
}

func init() {
	settingsCmd.AddCommand(settingsInitCmd)
	settingsCmd.AddCommand(settingsShowCmd)

	settingsInitCmd.Flags().Bool("force", false, "overwrite an existing file")
}

func initSettings(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	data, err := yaml.Marshal(settings.Defaults())
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func showSettings(w io.Writer, prefs settings.ExportSettings) error {
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	fmt.Fprintln(w, "# Effective export settings (file + defaults)")
	_, err = w.Write(data)
	return err
}

// loadSettings reads path over the defaults. Lists in the file replace the
// default lists instead of being merged element by element.
func loadSettings(path string) (settings.ExportSettings, error) {
	defaults, err := yaml.Marshal(settings.Defaults())
	if err != nil {
		return settings.ExportSettings{}, fmt.Errorf("failed to marshal defaults: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return settings.ExportSettings{}, fmt.Errorf("read defaults: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return settings.ExportSettings{}, fmt.Errorf("read settings %s: %w", path, err)
		}
	}

	var out settings.ExportSettings
	if err := v.Unmarshal(&out); err != nil {
		return settings.ExportSettings{}, fmt.Errorf("decode settings: %w", err)
	}

	out = out.Normalize()
	if err := out.Validate(); err != nil {
		return settings.ExportSettings{}, err
	}
	return out, nil
}
