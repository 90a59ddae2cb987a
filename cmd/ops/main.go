package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"taskboard/internal/board"
	"taskboard/internal/clock"
	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/ops"
	"taskboard/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	cfgPath string
	dataDir string
	clock   clock.Clock
}

// load reads the configuration and applies the --data-dir override.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.Storage.DataDir = o.dataDir
	}
	return cfg, nil
}

func (o *rootOptions) fileStore(cmd *cobra.Command) (*store.FileStore, *config.Config, error) {
	cfg, err := o.load(cmd)
	if err != nil {
		return nil, nil, err
	}
	fs, err := store.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return fs, cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{clock: clock.Real{}}

	root := &cobra.Command{
		Use:          "taskboard-ops",
		Short:        "Maintenance tasks for a taskboard data directory",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory, overrides storage.data_dir")

	root.AddCommand(
		newBackupCmd(opts),
		newRestoreCmd(opts),
		newDrillCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newBackupCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory into a .tar.gz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, _, err := opts.fileStore(cmd)
			if err != nil {
				return err
			}
			if out == "" {
				out = ops.DefaultArchivePath("backups", opts.clock.Now())
			}
			m, err := ops.Backup(cmd.Context(), fs, out)
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output archive path (default backups/taskboard-<ts>.tar.gz)")
	return cmd
}

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	var archive, target string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the store files of a directory with a backup archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if archive == "" {
				return fmt.Errorf("--archive is required")
			}
			if target == "" {
				cfg, err := opts.load(cmd)
				if err != nil {
					return err
				}
				target = cfg.Storage.DataDir
			}
			m, err := ops.Restore(cmd.Context(), archive, target)
			if err != nil {
				return fmt.Errorf("restore failed: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), m)
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "input backup archive (.tar.gz)")
	cmd.Flags().StringVar(&target, "target-dir", "", "restore target directory (default: the configured data dir)")
	return cmd
}

func newDrillCmd(opts *rootOptions) *cobra.Command {
	var workDir string
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Back up, restore into a scratch dir and verify the digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, _, err := opts.fileStore(cmd)
			if err != nil {
				return err
			}
			report, err := ops.Drill(cmd.Context(), fs, workDir, opts.clock.Now())
			if err != nil {
				return fmt.Errorf("drill failed: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&workDir, "work-dir", os.TempDir(), "workspace for drill artifacts")
	return cmd
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the board as a JSON bundle or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, cfg, err := opts.fileStore(cmd)
			if err != nil {
				return err
			}
			log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, "text")
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			repo := board.NewStoreRepo(fs, log)
			return ops.Export(cmd.Context(), repo, format, w, opts.clock.Now())
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json or csv")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all tasks with those of an export bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, cfg, err := opts.fileStore(cmd)
			if err != nil {
				return err
			}
			log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, "text")
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := ops.Import(cmd.Context(), board.NewStoreRepo(fs, log), board.NewEngine(opts.clock), f)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d tasks\n", n)
			return nil
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return cfg.Dump(cmd.OutOrStdout())
		},
	}

	var (
		path  string
		force bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.DefaultFileName
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&path, "path", "", "where to write (default ./"+config.DefaultFileName+")")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}

