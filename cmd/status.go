package cmd

import (
	"errors"
	"fmt"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/config"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the study backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if cfg.Client.Backend == config.BackendLocal {
			dbPath, err := resolveDBPath(cfg)
			if err != nil {
				return fmt.Errorf("resolve database path: %w", err)
			}
			fmt.Printf("Backend:   local (%s)\n", dbPath)
			if llmCfg, ok := llm.ResolveConfig(); ok {
				fmt.Printf("AI:        %s\n", llmCfg.Provider)
			} else {
				fmt.Println("AI:        offline content")
			}
			return nil
		}

		client := api.NewClient(cfg.Client.APIURL,
			api.WithUserID(cfg.Client.UserID),
			api.WithTimeout(cfg.Client.Timeout.Duration),
		)
		fmt.Printf("Backend:   %s\n", client.BaseURL())

		h, err := client.CheckHealth(cmd.Context())
		switch {
		case errors.Is(err, api.ErrIncompatibleServer):
			fmt.Printf("Status:    %s (version %s)\n", h.Status, h.Version)
			return err
		case err != nil:
			fmt.Println("Status:    unreachable")
			return err
		}

		fmt.Printf("Status:    %s\n", h.Status)
		if h.Message != "" {
			fmt.Printf("Message:   %s\n", h.Message)
		}
		fmt.Printf("Version:   %s (client %s, compatible)\n", h.Version, api.ServerVersion)
		return nil
	},
}
