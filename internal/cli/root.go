package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/fsworkspace"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/logger"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/workspacefinder"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/ui/tui"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/usecase"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.fail.Render("Error:"), domain.UserMessage(err))
		os.Exit(1)
	}
}

type rootFlags struct {
	debug     bool
	workspace string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	var cleanup func() error

	cmd := &cobra.Command{
		Use:           "edugestor",
		Short:         "edugestor: unit conversion and question templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Logs go to the workspace in use; outside a workspace nothing is written.
			if root, err := resolveWorkspaceRoot(flags.workspace); err == nil {
				cleanup, _ = logger.Setup(logger.Config{Root: root, Debug: flags.debug})
			}
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if cleanup != nil {
				_ = cleanup()
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			wd, _ = filepath.Abs(wd)

			deps := tui.Deps{
				WorkspaceLocator:     workspacefinder.NewFinder(),
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				Logger:               logger.L(),
				Debug:                flags.debug,
				StartDir:             wd,
			}

			if ws, werr := loadWorkspace(flags.workspace); werr == nil {
				deps.Units = ws.registry
				deps.Convert = usecase.NewConvertValue(ws.registry, usecase.WithConvertLogger(logger.L()))
				deps.WorkspaceRoot = ws.root
			} else {
				logger.L().Debug("tui.workspace_unavailable", logger.ErrAttrs(werr)...)
			}

			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable verbose logging to .edugestor/logs/edugestor.log")
	cmd.PersistentFlags().StringVarP(&flags.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")

	cmd.AddCommand(
		initCmd(),
		convertCmd(&flags),
		unitsCmd(&flags),
		questionsCmd(&flags),
		renderCmd(&flags),
		validateCmd(&flags),
		versionCmd(),
	)
	return cmd
}
