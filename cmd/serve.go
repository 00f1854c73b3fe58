package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/studybuddy/internal/auth"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the study HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if v, _ := cmd.Flags().GetString("listen"); v != "" {
			cfg.Server.Listen = v
		}

		log, err := logging.New(os.Stderr, cfg.Log.Level)
		if err != nil {
			return err
		}

		if cfg.Server.JWTSecret == auth.DevSecret {
			log.Warn("serve: using the development JWT secret; set STUDYBUDDY_JWT_SECRET")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(newBackend(ctx, st, log), server.Options{
			RateLimit:   cfg.Server.RateLimit,
			RateBurst:   cfg.Server.RateBurst,
			CORSOrigins: cfg.Server.CORSOrigins,
			JWTSecret:   cfg.Server.JWTSecret,
			TokenTTL:    cfg.Server.TokenTTL.Duration,
		}, log)
		return srv.Run(ctx, cfg.Server.Listen)
	},
}

func init() {
	serveCmd.Flags().StringP("listen", "l", "", "Listen address (default from config, :5000)")
}
