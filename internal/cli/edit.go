package cli

import (
	"fmt"

	"github.com/rpggio/pantry/internal/domain/document"
	"github.com/rpggio/pantry/internal/domain/ingredient"
	"github.com/spf13/cobra"
)

// NewAddMealCommand creates the add-meal command.
func NewAddMealCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-meal <name>",
		Short: "Create an empty meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			m, c, err := a.docs.AddMeal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.persist(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", m.ID, describeChange(c))
			return nil
		},
	}

	return cmd
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		mealID string
		date   string
	)

	cmd := &cobra.Command{
		Use:   "add <ingredient>",
		Short: "Add an ingredient to a meal or to the unsorted bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var bestBefore *ingredient.Date
			if date != "" {
				d, err := ingredient.ParseDate(date)
				if err != nil {
					return err
				}
				bestBefore = &d
			}

			a, err := open(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			target := a.docs.Unsorted()
			if mealID != "" {
				m, ok := a.docs.Meal(mealID)
				if !ok {
					return fmt.Errorf("meal %q: %w", mealID, document.ErrMealNotFound)
				}
				target = m
			}

			ing, err := a.docs.NewIngredient(args[0], bestBefore)
			if err != nil {
				return err
			}
			c, err := a.docs.AddIngredientTo(cmd.Context(), target, ing)
			if err != nil {
				return err
			}
			if err := a.persist(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ing.ID, describeChange(c))
			return nil
		},
	}

	cmd.Flags().StringVar(&mealID, "meal", "", "target meal id (default: unsorted bucket)")
	cmd.Flags().StringVar(&date, "date", "", "best-before date as YYYY-MM-DD")

	return cmd
}

// describeChange renders where a meal sits after a mutation.
func describeChange(c document.Change) string {
	if c.Unsorted {
		return fmt.Sprintf("-> %s (%s)", c.Meal.Title(), c.Count)
	}
	return fmt.Sprintf("-> %s, section %d position %d (%s)", c.Position.Title, c.Position.Section, c.Position.Meal, c.Count)
}
