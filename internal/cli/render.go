package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/app/template"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/logger"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/usecase"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/usecase/pick"
)

type renderFlags struct {
	seed   uint64
	markup string
	noSave bool
	format string
	picks  []string
}

func renderCmd(flags *rootFlags) *cobra.Command {
	var rf renderFlags

	c := &cobra.Command{
		Use:   "render <question>",
		Short: "Generate a question instance: draw values, render text and compute the answer",
		Example: "  edugestor render velocity --markup text\n" +
			"  edugestor render questions/velocity.yaml --seed 42 --no-save\n" +
			"  edugestor render velocity-1 --pick answer=$.answers[0].formatted",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := pick.ParseRules(rf.picks)
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(flags.workspace)
			if err != nil {
				return err
			}

			questionPath, err := resolveQuestionPath(ws, args[0])
			if err != nil {
				return err
			}

			engine, err := newEngine(ws.cfg, rf, cmd.Flags().Changed("seed"))
			if err != nil {
				return err
			}

			opts := []usecase.RenderOption{
				usecase.WithEngine(engine),
				usecase.WithUnits(ws.registry),
				usecase.WithRenderLogger(logger.L()),
			}
			if !rf.noSave {
				opts = append(opts, usecase.WithRenderStore(ws.store))
			}

			uc := usecase.NewRenderQuestion(ws.questions, opts...)
			gq, id, err := uc.Execute(cmd.Context(), questionPath)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(rules) > 0 {
				return printPicks(w, gq, rules)
			}
			return printRender(w, gq, id, rf.format)
		},
	}

	c.Flags().Uint64Var(&rf.seed, "seed", 0, "Seed for reproducible values (defaults to render.seed in edugestor.yaml)")
	c.Flags().StringVar(&rf.markup, "markup", "", "Markup: html|text (defaults to render.markup in edugestor.yaml)")
	c.Flags().BoolVar(&rf.noSave, "no-save", false, "Do not save the generated question under renders/")
	c.Flags().StringVar(&rf.format, "format", "pretty", "Output format: pretty|json")
	c.Flags().StringArrayVar(&rf.picks, "pick", nil, "Print only a JSONPath selection of the result (name=$.expr, repeatable)")
	return c
}

func newEngine(cfg domain.Config, rf renderFlags, seedSet bool) (*template.Engine, error) {
	name := cfg.Render.Markup
	if strings.TrimSpace(rf.markup) != "" {
		name = rf.markup
	}
	markup, err := template.MarkupByName(name)
	if err != nil {
		return nil, err
	}

	seed := cfg.Render.Seed
	if seedSet {
		seed = rf.seed
	}

	opts := []template.Option{template.WithMarkup(markup)}
	if seed != 0 {
		opts = append(opts, template.WithSeed(seed))
	}
	return template.NewEngine(opts...), nil
}

func printRender(w io.Writer, gq domain.GeneratedQuestion, id string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := map[string]any{
			"render_id": id,
			"question":  gq,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyRender(w, gq, id)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyRender(w io.Writer, gq domain.GeneratedQuestion, id string) {
	const width = 10

	fmt.Fprintln(w, field("Question", width, fmt.Sprintf("%s (%s)", gq.Title, gq.QuestionID)))
	fmt.Fprintln(w, field("Markup", width, gq.Markup))
	if id != "" {
		fmt.Fprintln(w, field("Render ID", width, id))
	}
	fmt.Fprintln(w)

	if len(gq.Values) > 0 {
		fmt.Fprintln(w, styles.title.Render("Values"))
		for _, v := range gq.Values {
			line := fmt.Sprintf("  %s = %s", v.Name, v.Formatted)
			if v.Unit != "" {
				line += " " + v.Unit
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, styles.title.Render("Text"))
	for _, line := range strings.Split(gq.Text, "\n") {
		fmt.Fprintln(w, "  "+line)
	}
	fmt.Fprintln(w)

	if len(gq.Equations) > 0 {
		fmt.Fprintln(w, styles.title.Render("Equations"))
		for _, e := range gq.Equations {
			fmt.Fprintf(w, "  %s: %s\n", e.ID, e.Rendered)
		}
		fmt.Fprintln(w)
	}

	if !gq.References.Valid || len(gq.References.Malformed) > 0 {
		for _, name := range gq.References.Undefined {
			fmt.Fprintln(w, styles.warn.Render(fmt.Sprintf("! undefined variable {%s} left as text", name)))
		}
		for _, m := range gq.References.Malformed {
			fmt.Fprintln(w, styles.warn.Render(fmt.Sprintf("! malformed placeholder %s left as text", m)))
		}
		fmt.Fprintln(w)
	}

	for _, a := range gq.Answers {
		fmt.Fprintln(w, styles.title.Render("Answer"))
		if a.Error != "" {
			fmt.Fprintf(w, "  %s %s\n", styles.fail.Render("✗"), a.Error)
			continue
		}
		line := fmt.Sprintf("  %s = %s", a.Expression, styles.ok.Render(a.Formatted))
		if a.Unit != "" {
			line += " " + a.Unit
		}
		fmt.Fprintln(w, line)
	}
}

func printPicks(w io.Writer, gq domain.GeneratedQuestion, rules map[string]string) error {
	body, err := json.Marshal(gq)
	if err != nil {
		return fmt.Errorf("encode generated question: %w", err)
	}

	picked, results := pick.Apply(body, rules)

	var failed int
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Fprintf(w, "%s %s\n", styles.fail.Render("✗"), r.Message)
			continue
		}
		if len(rules) == 1 {
			fmt.Fprintln(w, picked[r.Name])
			continue
		}
		fmt.Fprintf(w, "%s=%s\n", r.Name, picked[r.Name])
	}

	if failed > 0 {
		return fmt.Errorf("%d pick(s) failed", failed)
	}
	return nil
}
