package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rpggio/pantry/internal/domain/activity"
	"github.com/spf13/cobra"
)

// ErrNoActivity is returned when the storage backend keeps no activity feed.
var ErrNoActivity = errors.New("activity feed requires the sqlite storage backend")

// NewActivityCommand creates the activity command.
func NewActivityCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		limit  int
		mealID string
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent pantry changes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.activity == nil {
				return ErrNoActivity
			}
			opts := activity.ListOptions{Limit: limit}
			if mealID != "" {
				opts.MealID = &mealID
			}
			entries, err := a.activity.Recent(cmd.Context(), opts)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Type, e.Summary)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", activity.DefaultLimit, "maximum number of entries")
	cmd.Flags().StringVar(&mealID, "meal", "", "only show activity for this meal id")

	return cmd
}
