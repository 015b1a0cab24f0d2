package cmd

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/abhisek/medval/internal/answergen"
	"github.com/abhisek/medval/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fill missing AI answers in step 1 and step 2 question files",
	Long: `Ask the configured LLM provider to answer every step 1 and step 2 question
that has no ai_answer yet, and write the answers back into the question files.

Reference answers are never sent to the provider.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("generate"); err != nil {
			return err
		}

		provider, err := llm.New(ctx, llm.FromSettings(cfg.LLM))
		if err != nil {
			return err
		}

		gcfg := answergen.DefaultConfig()
		if cfg.LLM.MaxOutputTokens > 0 {
			gcfg.MaxTokens = cfg.LLM.MaxOutputTokens
		}
		gcfg.Overwrite, _ = cmd.Flags().GetBool("overwrite")
		if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
			gcfg.Concurrency = n
		}
		gen := answergen.New(provider, gcfg)

		files := answergen.Files(cfg.Content.Dir)
		if len(files) == 0 {
			return eris.Errorf("no step 1 or step 2 question files in %s", cfg.Content.Dir)
		}

		var failed int
		for _, path := range files {
			res, err := answergen.FillFile(ctx, gen, path, gcfg)
			if err != nil {
				return err
			}
			fmt.Printf("%-32s  %3d filled  %3d skipped  %3d failed\n",
				filepath.Base(path), res.Filled, res.Skipped, len(res.Failed))
			for _, i := range slices.Sorted(maps.Keys(res.Failed)) {
				fmt.Printf("  question %d: %v\n", i+1, res.Failed[i])
			}
			failed += len(res.Failed)
		}
		if failed > 0 {
			return eris.Errorf("%d question(s) could not be answered", failed)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().Bool("overwrite", false, "Replace existing AI answers")
	generateCmd.Flags().Int("concurrency", 0, "Parallel provider calls (default 4)")
}
