package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fdg312/health-export/internal/export"
	"github.com/fdg312/health-export/internal/writemode"
)

type mergeOptions struct {
	target    string
	generated string
	mode      string
	format    string
	output    string
}

var mergeOpts mergeOptions

var mergeCmd = &cobra.Command{
	Use:   "merge <target> <generated>",
	Short: "Combine a generated document with an existing file",
	Long: `merge applies a write mode to an existing file and freshly generated content.
The target may be missing. With --output "-" the result goes to stdout,
otherwise the target is rewritten.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := mergeOpts
		opts.target, opts.generated = args[0], args[1]
		return runMerge(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	f := mergeCmd.Flags()
	f.StringVar(&mergeOpts.mode, "mode", string(writemode.Update), "overwrite | append | update")
	f.StringVar(&mergeOpts.format, "format", "", "format of both documents (from the target extension when empty)")
	f.StringVarP(&mergeOpts.output, "output", "o", "", `write here instead of the target ("-" for stdout)`)
}

// formatFromPath maps a file extension to a format. Unknown extensions
// are treated as Markdown.
func formatFromPath(path string) export.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return export.FormatJSON
	case ".csv":
		return export.FormatCSV
	}
	return export.FormatMarkdown
}

func runMerge(opts mergeOptions, out, errOut io.Writer) error {
	mode, err := writemode.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	format := formatFromPath(opts.target)
	if opts.format != "" {
		if format, err = export.ParseFormat(opts.format); err != nil {
			return err
		}
	}

	generated, err := os.ReadFile(opts.generated)
	if err != nil {
		return fmt.Errorf("read generated: %w", err)
	}

	existing := writemode.Missing
	data, err := os.ReadFile(opts.target)
	switch {
	case err == nil:
		existing = writemode.Found(string(data))
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("read target: %w", err)
	}

	res := writemode.Resolve(existing, string(generated), mode, format)
	if res.FellBack {
		fmt.Fprintf(errOut, "Note: %s has no sections, update fell back to overwrite\n", format)
	}

	dest := opts.output
	if dest == "" {
		dest = opts.target
	}
	if dest == "-" {
		_, err := io.WriteString(out, res.Content)
		return err
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(dest, []byte(res.Content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	fmt.Fprintf(out, "Wrote %s (mode=%s)\n", dest, res.Applied)
	return nil
}
