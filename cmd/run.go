package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/app"
	"github.com/abhisek/studybuddy/internal/appstate"
	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/leaderboard"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/spacedrep"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/tutor"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	dataDir, err := store.DataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	log, closer, err := logging.NewFile(filepath.Join(dataDir, "studybuddy.log"), cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc := newService(ctx, cfg, st, log)

	sched, err := spacedrep.Load(ctx, st.KV())
	if err != nil {
		return fmt.Errorf("load review schedule: %w", err)
	}

	route, _ := cmd.Flags().GetString("route")
	noSplash, _ := cmd.Flags().GetBool("no-splash")
	log.WithFields(logrus.Fields{
		"backend": cfg.Client.Backend,
		"route":   route,
	}).Info("starting study buddy")

	return app.Run(app.Deps{
		Service:   svc,
		State:     appstate.NewStore(),
		Board:     leaderboard.New(st.KV()),
		KV:        st.KV(),
		Scheduler: sched,
		Log:       log,
		Splash:    !noSplash,
	}, route)
}

// newService returns the HTTP client for the remote backend, or the
// in-process backend for the configured user.
func newService(ctx context.Context, cfg config.Config, st *store.Store, log *logrus.Logger) api.Service {
	if cfg.Client.Backend == config.BackendLocal {
		return newBackend(ctx, st, log).ForUser(cfg.Client.UserID)
	}
	return api.NewClient(cfg.Client.APIURL,
		api.WithUserID(cfg.Client.UserID),
		api.WithToken(cfg.Client.Token),
		api.WithTimeout(cfg.Client.Timeout.Duration),
		api.WithLogger(log),
	)
}

// newBackend builds the study backend. AI content is optional: without a
// configured provider the tutor serves offline content.
func newBackend(ctx context.Context, st *store.Store, log *logrus.Logger) *backend.Backend {
	var provider llm.Provider
	if llmCfg, ok := llm.ResolveConfig(); ok {
		p, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log)
		if err != nil {
			log.WithError(err).Warn("LLM provider not configured, using offline content")
		} else {
			provider = p
			log.WithField("provider", llmCfg.Provider).Info("LLM provider ready")
		}
	} else {
		log.Info("no LLM provider configured, using offline content")
	}

	return backend.New(st, tutor.New(provider, tutor.DefaultConfig(), log), log)
}
