package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/medval/internal/content"
	"github.com/abhisek/medval/internal/server"
	"github.com/abhisek/medval/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve questionnaire content and collect answers over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		criteria, _ := cmd.Flags().GetString("criteria-image")
		srv, err := server.New(ctx, content.NewDirSource(cfg.Content.Dir), server.Options{
			AnswersDir:    cfg.Server.AnswersDir,
			CriteriaImage: criteria,
			Store:         st,
			RateLimit:     cfg.Server.RateLimit,
			RateBurst:     cfg.Server.RateBurst,
		})
		if err != nil {
			return err
		}

		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		zap.L().Info("server listening",
			zap.String("addr", addr),
			zap.String("content_dir", cfg.Content.Dir),
			zap.String("store", cfg.Store.Driver),
		)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().String("criteria-image", "", "Image served at /evaluation-criteria")
}
