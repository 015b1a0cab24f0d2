package cmd

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/medval/internal/config"
)

// tuiLogFile receives logs while the questionnaire owns the terminal.
const tuiLogFile = "medval.log"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "medval",
	Short: "Clinician validation questionnaire for MedGPT",
	Long: "MedVal walks HIV clinicians through rating MedGPT answers, answering clinical\n" +
		"questions themselves and comparing with MedGPT, then saves their responses.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c
		applyFlags(cmd, cfg)

		if !cmd.HasParent() && cfg.Log.File == "" {
			cfg.Log.File = tuiLogFile
		}
		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("content-dir", "", "Directory with question files (overrides content.dir)")
	pf.String("db", "", "Database DSN (overrides store.database_url)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.Flags().String("base-url", "", "Questionnaire backend URL (overrides content.base_url)")
	rootCmd.Flags().String("export-dir", "", "Directory for the local answers file (overrides export.dir)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	set := func(name string, dst *string) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	set("content-dir", &c.Content.Dir)
	set("db", &c.Store.DatabaseURL)
	set("log-level", &c.Log.Level)
	set("base-url", &c.Content.BaseURL)
	set("export-dir", &c.Export.Dir)

	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		if p, err := cmd.Flags().GetInt("port"); err == nil {
			c.Server.Port = p
		}
	}
}
