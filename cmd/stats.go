package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored session and rating statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("store"); err != nil {
			return err
		}

		s, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.Stats(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Sessions saved:  %d\n", stats.Sessions)
		fmt.Printf("Ratings stored:  %d\n", stats.Ratings)
		if !stats.LastSaved.IsZero() {
			fmt.Printf("Last saved:      %s\n", stats.LastSaved.Local().Format("2006-01-02 15:04:05"))
		}
		if stats.Ratings == 0 {
			return nil
		}

		fmt.Println()
		fmt.Printf("%-24s  %s\n", "Dimension", "Mean")
		fmt.Println(strings.Repeat("─", 32))
		for _, d := range questionnaire.AllDimensions() {
			fmt.Printf("%-24s  %4.2f\n", d.Label(), stats.Means[d])
		}
		fmt.Println(strings.Repeat("─", 32))
		fmt.Printf("%-24s  %4.1fs\n", "Mean time per answer", stats.MeanTimeSpent)
		return nil
	},
}
