package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/app/template"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/infra/logger"
	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/usecase"
)

func convertCmd(flags *rootFlags) *cobra.Command {
	var format string
	var precision int

	c := &cobra.Command{
		Use:     "convert <value> <from> <to>",
		Short:   "Convert a value between two units of the workspace catalog",
		Example: "  edugestor convert 150 cm m\n  edugestor convert -- -40 F C",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValue(args[0])
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(flags.workspace)
			if err != nil {
				return err
			}

			uc := usecase.NewConvertValue(ws.registry, usecase.WithConvertLogger(logger.L()))
			res, err := uc.Execute(cmd.Context(), value, args[1], args[2])
			if err != nil {
				return err
			}
			return printConversion(cmd.OutOrStdout(), res, format, precision)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	c.Flags().IntVarP(&precision, "precision", "p", -1, "Decimal places in pretty output (-1 keeps full precision)")
	return c
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: expected a number", s)
	}
	return v, nil
}

func printConversion(w io.Writer, res domain.ConversionResult, format string, precision int) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "pretty", "":
		fmt.Fprintf(w, "%s %s = %s %s  %s\n",
			formatNumber(res.Value, precision), res.FromUnit,
			styles.ok.Render(formatNumber(res.Result, precision)), res.ToUnit,
			styles.faint.Render("("+res.Via+")"),
		)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func formatNumber(v float64, precision int) string {
	if precision < 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return template.FormatValue(v, precision)
}
