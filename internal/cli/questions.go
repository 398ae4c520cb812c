package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func questionsCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "questions",
		Short: "Manage question templates in a workspace",
	}

	c.AddCommand(questionsListCmd(flags))
	return c
}

func questionsListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List question templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags.workspace)
			if err != nil {
				return err
			}

			refs, err := ws.questions.ListQuestions(ws.root)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(w, "(no questions found)")
				return nil
			}

			fmt.Fprintf(w, "Workspace: %s\n\n", ws.root)
			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				fmt.Fprintf(w, "- %s  %s  (%s)\n", r.ID, styles.faint.Render(r.Title), rel)
			}
			return nil
		},
	}
}
