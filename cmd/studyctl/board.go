package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"studycompanion/internal/quizboard"
)

func (a *app) boardCmd() *cobra.Command {
	var (
		assign []int
		remove []int
	)
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the teacher quiz board",
		Long:  "Show the teacher quiz board. Changes made with --assign or --delete are not saved.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := quizboard.NewDemoBoard()
			for _, id := range assign {
				if _, err := b.Assign(id); err != nil {
					return fmt.Errorf("%w: %d", err, id)
				}
			}
			for _, id := range remove {
				if err := b.Delete(id); err != nil {
					return fmt.Errorf("%w: %d", err, id)
				}
			}
			return b.Render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntSliceVar(&assign, "assign", nil, "mark quiz ids as assigned")
	cmd.Flags().IntSliceVar(&remove, "delete", nil, "remove quiz ids")
	return cmd
}
