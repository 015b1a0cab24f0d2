package cmd

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/abhisek/medval/internal/export"
	"github.com/abhisek/medval/internal/questionnaire"
	"github.com/abhisek/medval/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved answers for analysis",
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx <output.xlsx>",
	Short: "Write saved answers to an Excel workbook",
	Long: `Write every saved answers record to an Excel workbook with one sheet per
section. Records come from the database unless --from-dir names a directory
of answers files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var recs []questionnaire.ExportRecord
		if dir, _ := cmd.Flags().GetString("from-dir"); dir != "" {
			r, err := export.ReadDir(dir)
			if err != nil {
				return err
			}
			recs = r
		} else {
			if err := cfg.Validate("store"); err != nil {
				return err
			}
			s, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
			if err != nil {
				return err
			}
			defer s.Close()

			if recs, err = s.ListAnswers(ctx); err != nil {
				return err
			}
		}

		if len(recs) == 0 {
			return eris.New("no saved answers to export")
		}
		if err := export.WriteXLSX(args[0], recs); err != nil {
			return err
		}
		fmt.Printf("Wrote %d session(s) to %s\n", len(recs), args[0])
		return nil
	},
}

func init() {
	exportXLSXCmd.Flags().String("from-dir", "", "Read answers files from this directory instead of the database")
	exportCmd.AddCommand(exportXLSXCmd)
}
