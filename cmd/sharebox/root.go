package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sharebox/internal/cli"
	"github.com/dmitrijs2005/sharebox/internal/config"
	"github.com/dmitrijs2005/sharebox/internal/logging"
	"github.com/spf13/cobra"
)

// runner carries the App between the persistent hooks and the subcommands.
type runner struct {
	flags *config.Flags
	app   *cli.App
}

func newRootCmd() *cobra.Command {
	r := &runner{}

	root := &cobra.Command{
		Use:     "sharebox",
		Short:   "sharebox - a local catalog of products shared by profiles",
		Long:    "Keep a local catalog of products under one or more profiles, like and comment on them, and move the data between machines with export and import.",
		Version: fmt.Sprintf("%s (built %s)", buildVersion, buildDate),

		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.open,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return r.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r.app.Run(cmd.Context())
			return nil
		},
	}
	r.flags = config.NewFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "repl",
			Short: "Start the interactive shell (the default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				r.app.Run(cmd.Context())
				return nil
			},
		},
		newListCmd(r),
		r.lineCmd("stats", "Show the dashboard", cobra.NoArgs),
		r.lineCmd("show <id>", "Show one product", cobra.ExactArgs(1)),
		r.lineCmd("like <id>", "Like a product", cobra.ExactArgs(1)),
		r.lineCmd("delete <id>", "Delete a product", cobra.ExactArgs(1)),
		r.lineCmd("comment <id> <text>", "Comment on a product", cobra.MinimumNArgs(2)),
		r.lineCmd("profile <username> [bio]", "Save the active profile", cobra.MinimumNArgs(1)),
		r.lineCmd("profiles", "List saved profiles", cobra.NoArgs),
		r.lineCmd("switch <id>|new", "Change the active profile", cobra.ExactArgs(1)),
		r.lineCmd("theme", "Toggle the light and dark theme", cobra.NoArgs),
		r.lineCmd("export [path]", "Write all data to a JSON file", cobra.MaximumNArgs(1)),
		r.lineCmd("import <path>", "Merge an export or a product array", cobra.ExactArgs(1)),
		newAutofillCmd(r),
		newAddCmd(r),
	)
	return root
}

func (r *runner) open(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(r.flags)
	if err != nil {
		return err
	}
	log := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
		cmd.SetContext(ctx)
	}
	r.app, err = cli.Open(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), log)
	return err
}

func (r *runner) close() error {
	if r.app == nil {
		return nil
	}
	return r.app.Close()
}

// lineCmd is a subcommand that runs the REPL command of the same name with
// the given arguments, each passed through as one argument.
func (r *runner) lineCmd(use, short string, args cobra.PositionalArgs) *cobra.Command {
	name, _, _ := strings.Cut(use, " ")
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.ExecArgs(cmd.Context(), name, args...)
		},
	}
}
