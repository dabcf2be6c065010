package cli

import (
	"fmt"
	"strings"

	"github.com/bsels/sembump/internal/config"
	clierrors "github.com/bsels/sembump/internal/errors"
	"github.com/bsels/sembump/internal/fsutil"
	"github.com/bsels/sembump/internal/output"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage configuration",
		Long: `Inspect and manage sembump configuration.

Settings are merged from built-in defaults, the user config
($XDG_CONFIG_HOME/sembump/config.yml), the project config (.sembump.yml)
and SEMBUMP_* environment variables. Later layers win.`,
		GroupID: GroupSetup,
	}
	cmd.AddCommand(newConfigShowCmd(a), newConfigInitCmd(a), newConfigMigrateCmd(a))
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration and where each value comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			return writeConfigTable(cmd, cfg)
		},
	}
}

func writeConfigTable(cmd *cobra.Command, cfg *config.Configuration) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	defer func() { _ = table.Close() }()

	table.Header([]string{"Key", "Value", "Source"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, k := range config.KnownKeys {
		v, err := cfg.Value(k.Path)
		if err != nil {
			return err
		}
		data = append(data, []string{k.Path, strings.ReplaceAll(v, "\n", `\n`), string(cfg.Source(k.Path))})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented .sembump.yml to the project root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := a.projectRoot()
			if err != nil {
				return err
			}
			path := config.ProjectConfigPath(root)
			if fsutil.Exists(path) && !force {
				return clierrors.NewArgumentError(
					fmt.Sprintf("%s already exists", path),
					"Use --force to overwrite it",
				)
			}
			if err := fsutil.WriteAtomic(path, []byte(config.GetDefaultConfigTemplate())); err != nil {
				return clierrors.Wrap(err, clierrors.Runtime)
			}
			output.PrintSuccess(cmd.OutOrStdout(), "Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func newConfigMigrateCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Convert a legacy .sembump.json to .sembump.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := a.projectRoot()
			if err != nil {
				return err
			}
			result, err := config.MigrateProjectConfig(root, dryRun)
			if err != nil {
				return clierrors.Wrap(err, clierrors.Configuration)
			}
			if result.Migrated {
				output.PrintSuccess(cmd.OutOrStdout(), "%s", result.Message)
				output.PrintPath(cmd.OutOrStdout(), "backup", result.SourcePath+".bak")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be migrated")
	return cmd
}
