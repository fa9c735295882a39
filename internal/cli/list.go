package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cschladetsch/asyncflow-go/internal/scenario"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenario documents found under the configured script directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.ScriptDir == "" {
				return fmt.Errorf("no script directory configured; set --script-dir")
			}

			entries, err := os.ReadDir(cfg.ScriptDir)
			if err != nil {
				return fmt.Errorf("read script directory %q: %w", cfg.ScriptDir, err)
			}

			type row struct{ name, kind, file string }
			var rows []row

			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				ext := strings.ToLower(filepath.Ext(entry.Name()))
				if ext != ".yaml" && ext != ".yml" {
					continue
				}

				path := filepath.Join(cfg.ScriptDir, entry.Name())
				f, err := os.Open(path)
				if err != nil {
					logger.Warn("skipping unreadable scenario file", "path", path, "error", err)
					continue
				}
				spec, err := scenario.Parse(f)
				f.Close()
				if err != nil {
					logger.Warn("skipping malformed scenario file", "path", path, "error", err)
					continue
				}
				rows = append(rows, row{name: spec.Name, kind: spec.Root.Kind, file: entry.Name()})
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No scenario documents found.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%-24s  %-16s  %s\n", "NAME", "ROOT KIND", "FILE")
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s  %-16s  %s\n", "----", "---------", "----")
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s  %-16s  %s\n", r.name, r.kind, r.file)
			}
			return nil
		},
	}
}
