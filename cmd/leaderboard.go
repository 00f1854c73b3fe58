package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/studybuddy/internal/leaderboard"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the local quiz leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		board := leaderboard.New(st.KV())
		ctx := cmd.Context()

		if reset, _ := cmd.Flags().GetBool("clear"); reset {
			if err := board.Clear(ctx); err != nil {
				return fmt.Errorf("clear leaderboard: %w", err)
			}
			fmt.Println("Leaderboard cleared.")
			return nil
		}

		entries, err := board.Top(ctx)
		if err != nil {
			return fmt.Errorf("read leaderboard: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No quiz scores yet. Finish a quiz to get on the board!")
			return nil
		}

		fmt.Printf("%-4s  %-28s  %5s  %s\n", "#", "Topic", "Score", "Date")
		fmt.Println(strings.Repeat("─", 54))
		for i, e := range entries {
			fmt.Printf("%-4d  %s  %5d  %s\n",
				i+1,
				components.PadRight(components.Truncate(e.Topic, 28), 28),
				e.Score,
				e.Date.Local().Format("2006-01-02"),
			)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().Bool("clear", false, "Remove all leaderboard entries")
}
