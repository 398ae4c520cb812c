package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/usecase"
)

func validateCmd(flags *rootFlags) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "validate [question]",
		Short: "Validate the unit catalog and question templates (all questions when none is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Loading the workspace validates the merged unit catalog.
			ws, err := loadWorkspace(flags.workspace)
			if err != nil {
				return err
			}

			var paths []string
			if len(args) == 1 {
				p, err := resolveQuestionPath(ws, args[0])
				if err != nil {
					return err
				}
				paths = append(paths, p)
			} else {
				refs, err := ws.questions.ListQuestions(ws.root)
				if err != nil {
					return err
				}
				for _, r := range refs {
					paths = append(paths, r.Path)
				}
			}

			uc := usecase.NewValidateQuestion(ws.questions, usecase.WithCatalog(ws.registry))

			reports := make([]domain.ValidationReport, 0, len(paths))
			for _, p := range paths {
				report, err := uc.Execute(cmd.Context(), p)
				if err != nil {
					return err
				}
				if rel, rerr := filepath.Rel(ws.root, report.Path); rerr == nil {
					report.Path = rel
				}
				reports = append(reports, report)
			}

			if err := printReports(cmd.OutOrStdout(), reports, format); err != nil {
				return err
			}

			if n := countInvalid(reports); n > 0 {
				return fmt.Errorf("validation failed (%d invalid question(s))", n)
			}
			return nil
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printReports(w io.Writer, reports []domain.ValidationReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "pretty", "":
		if len(reports) == 0 {
			fmt.Fprintln(w, "(no questions found)")
			return nil
		}
		for _, r := range reports {
			printPrettyReport(w, r)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyReport(w io.Writer, r domain.ValidationReport) {
	status := styles.ok.Render("OK")
	if !r.OK() {
		status = styles.fail.Render("INVALID")
	}
	fmt.Fprintf(w, "- [%s] %s (%s)\n", status, r.QuestionID, r.Path)

	for _, is := range r.Issues {
		mark := styles.fail.Render("✗")
		if is.Warning {
			mark = styles.warn.Render("!")
		}
		fmt.Fprintf(w, "    %s %s %s\n", mark, is.Message, styles.faint.Render("("+string(is.Kind)+")"))
	}
}

func countInvalid(reports []domain.ValidationReport) int {
	n := 0
	for _, r := range reports {
		if !r.OK() {
			n++
		}
	}
	return n
}
