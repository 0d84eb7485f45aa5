package cli

import (
	"fmt"
	"io"

	"github.com/rpggio/pantry/internal/domain/document"
	"github.com/rpggio/pantry/internal/domain/ingredient"
	"github.com/rpggio/pantry/internal/domain/meal"
	"github.com/rpggio/pantry/internal/locale"
	"github.com/spf13/cobra"
)

// NewSectionsCommand creates the sections command.
func NewSectionsCommand(rootOpts *RootOptions) *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:     "sections",
		Aliases: []string{"ls"},
		Short:   "Print the pantry grouped by eat-by date",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()
			return writeAgenda(cmd.OutOrStdout(), a.docs, a.printer, showIDs)
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "include meal and ingredient ids")

	return cmd
}

// writeAgenda prints the unsorted bucket followed by each section in order.
func writeAgenda(w io.Writer, docs *document.Service, p *locale.Printer, showIDs bool) error {
	ew := &errWriter{w: w}

	writeMeal(ew, docs.Unsorted(), p, "", showIDs)
	for _, sec := range docs.Sections() {
		ew.printf("\n== %s ==\n", sec.Title)
		for _, m := range sec.Meals() {
			writeMeal(ew, m, p, "  ", showIDs)
		}
	}
	return ew.err
}

func writeMeal(ew *errWriter, m *meal.Meal, p *locale.Printer, indent string, showIDs bool) {
	ew.printf("%s%s (%s)", indent, m.Title(), p.CountLabel(m.Len(), m.Special()))
	if showIDs && !m.Special() {
		ew.printf(" [%s]", m.ID)
	}
	ew.printf("\n")
	for _, ing := range m.Ingredients() {
		ew.printf("%s  - %s\n", indent, ingredientLine(ing, p, showIDs))
	}
}

func ingredientLine(ing *ingredient.Ingredient, p *locale.Printer, showIDs bool) string {
	line := ing.Name()
	if d, ok := ing.BestBefore(); ok {
		line += ", best before " + p.Date(d)
	}
	if ing.Frozen() {
		line += ", frozen"
	}
	if showIDs {
		line += fmt.Sprintf(" [%s]", ing.ID)
	}
	return line
}

// errWriter keeps the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
