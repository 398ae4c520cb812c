package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ojeffpinheiro/edu-gestor-sub005/internal/domain"
)

func unitsCmd(flags *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "units",
		Short: "Inspect the unit catalog of a workspace",
	}

	c.AddCommand(unitsListCmd(flags))
	return c
}

func unitsListCmd(flags *rootFlags) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List units grouped by category, and the conversion relations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(flags.workspace)
			if err != nil {
				return err
			}

			refs, err := ws.catalogs.ListCatalogs(ws.root)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(w, "(no unit catalogs found)")
				return nil
			}

			fmt.Fprintf(w, "Workspace: %s\n\n", ws.root)
			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				fmt.Fprintf(w, "- %s  (%s)\n", r.Name, rel)
			}
			fmt.Fprintln(w)

			printCatalog(w, ws.registry.Catalog(), category)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only list units of this category")
	return cmd
}

func printCatalog(w io.Writer, cat domain.Catalog, category string) {
	byCategory := map[string][]domain.Unit{}
	for _, u := range cat.Units {
		byCategory[u.Category] = append(byCategory[u.Category], u)
	}

	for _, c := range cat.Categories() {
		if category != "" && c != category {
			continue
		}
		fmt.Fprintln(w, styles.title.Render(c))

		units := byCategory[c]
		sort.SliceStable(units, func(i, j int) bool { return units[i].IsBaseUnit && !units[j].IsBaseUnit })
		for _, u := range units {
			fmt.Fprintf(w, "  %-8s %s%s\n", u.ID, u.Name, unitNote(u))
		}
		fmt.Fprintln(w)
	}

	if category != "" || len(cat.Relations) == 0 {
		return
	}

	fmt.Fprintln(w, styles.title.Render("Relations"))
	for _, r := range cat.Relations {
		line := fmt.Sprintf("  %s -> %s  factor %s", r.FromUnit, r.ToUnit, strconv.FormatFloat(r.Factor, 'g', -1, 64))
		if r.Formula != "" {
			line += "  formula " + r.Formula
		}
		fmt.Fprintln(w, line)
	}
}

func unitNote(u domain.Unit) string {
	if u.IsBaseUnit {
		return styles.faint.Render("  (base)")
	}
	if f, ok := u.Factor(); ok {
		return styles.faint.Render(fmt.Sprintf("  = %s %s", strconv.FormatFloat(f, 'g', -1, 64), u.BaseUnitID))
	}
	return ""
}
