package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the tutor's LLM calls and what they cost",
}

const timeLayout = "2006-01-02 15:04:05"

func rule(w io.Writer, n int) {
	fmt.Fprintln(w, strings.Repeat("─", n))
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		before, _ := cmd.Flags().GetInt("before")
		failed, _ := cmd.Flags().GetBool("failed")

		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{
			Limit:   limit,
			Purpose: purpose,
			Before:  before,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if failed {
			kept := events[:0]
			for _, e := range events {
				if !e.Success {
					kept = append(kept, e)
				}
			}
			events = kept
		}

		if len(events) == 0 {
			fmt.Println("No LLM calls recorded. They appear once the tutor answers with a configured provider.")
			return nil
		}
		printEvents(os.Stdout, events)
		if last := events[len(events)-1]; limit > 0 && len(events) == limit {
			fmt.Printf("\nOlder calls: studybuddy llm list --before %d\n", last.ID)
		}
		return nil
	},
}

func printEvents(w io.Writer, events []store.LLMRequestEvent) {
	fmt.Fprintf(w, "%-5s  %-19s  %-12s  %-14s  %-24s  %11s  %6s  %s\n",
		"ID", "When", "Feature", "Purpose", "Model", "Tokens", "Ms", "")
	rule(w, 104)
	for _, e := range events {
		status := ""
		if !e.Success {
			status = "failed"
		}
		fmt.Fprintf(w, "%-5d  %-19s  %s  %-14s  %s  %11s  %6d  %s\n",
			e.ID,
			e.Timestamp.Local().Format(timeLayout),
			components.PadRight(llm.FeatureOf(e.Purpose), 12),
			e.Purpose,
			components.PadRight(components.Truncate(e.Model, 24), 24),
			fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
			e.LatencyMs,
			status,
		)
	}
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(os.Stdout, e)
		return nil
	},
}

func printEvent(w io.Writer, e *store.LLMRequestEvent) {
	fields := [][2]string{
		{"ID", strconv.Itoa(e.ID)},
		{"Time", e.Timestamp.Local().Format(timeLayout)},
		{"Feature", fmt.Sprintf("%s (%s)", llm.FeatureOf(e.Purpose), e.Purpose)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
	}
	if cost := llm.LookupCost(e.Model); cost != nil {
		fields = append(fields, [2]string{"Cost", formatCost(cost.Cost(e.InputTokens, e.OutputTokens))})
	}
	if !e.Success {
		fields = append(fields, [2]string{"Error", e.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-9s %s\n", f[0]+":", f[1])
	}

	for _, part := range []struct{ title, body string }{
		{"PROMPT", e.RequestBody},
		{"REPLY", e.ResponseBody},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, part.title)
		rule(w, 60)
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize LLM usage per study feature and estimate cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		printFeatureUsage(os.Stdout, llm.ByFeature(byPurpose))
		fmt.Println()
		printModelCosts(os.Stdout, byModel)
		return nil
	},
}

// printFeatureUsage prints one row per study feature with its purposes
// indented below, and the share of all tokens each feature used.
func printFeatureUsage(w io.Writer, features []llm.FeatureUsage) {
	var all llm.FeatureUsage
	for _, f := range features {
		all.Calls += f.Calls
		all.Failures += f.Failures
		all.InputTokens += f.InputTokens
		all.OutputTokens += f.OutputTokens
	}

	fmt.Fprintln(w, "Usage by Study Feature")
	rule(w, 76)
	fmt.Fprintf(w, "%-20s  %6s  %6s  %10s  %10s  %7s  %6s\n",
		"Feature", "Calls", "Failed", "Input", "Output", "Avg Ms", "Share")
	rule(w, 76)
	for _, f := range features {
		fmt.Fprintf(w, "%-20s  %6d  %6d  %10d  %10d  %7d  %5.1f%%\n",
			f.Feature, f.Calls, f.Failures, f.InputTokens, f.OutputTokens, f.AvgLatencyMs,
			share(f.Tokens(), all.Tokens()))
		if len(f.Purposes) < 2 {
			continue
		}
		for _, p := range f.Purposes {
			fmt.Fprintf(w, "  %-18s  %6d  %6d  %10d  %10d  %7d\n",
				p.Purpose, p.Calls, p.Failures, p.InputTokens, p.OutputTokens, p.AvgLatencyMs)
		}
	}
	rule(w, 76)
	fmt.Fprintf(w, "%-20s  %6d  %6d  %10d  %10d\n",
		"TOTAL", all.Calls, all.Failures, all.InputTokens, all.OutputTokens)
}

func share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

func printModelCosts(w io.Writer, models []store.LLMUsage) {
	fmt.Fprintln(w, "Estimated Cost (USD)")
	rule(w, 76)
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	rule(w, 76)

	var (
		total   float64
		unknown []string
	)
	for _, m := range models {
		name := components.PadRight(components.Truncate(m.Model, 32), 32)
		cost := "?"
		if c := llm.LookupCost(m.Model); c != nil {
			usd := c.Cost(m.InputTokens, m.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unknown = append(unknown, m.Model)
		}
		fmt.Fprintf(w, "%s  %6d  %10d  %10d  %10s\n", name, m.Calls, m.InputTokens, m.OutputTokens, cost)
	}

	rule(w, 76)
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nNo pricing for: %s\n", strings.Join(unknown, ", "))
	}
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().Int("before", 0, "Only show calls with an ID below this one")
	llmListCmd.Flags().StringP("purpose", "p", "",
		"Filter by purpose: "+strings.Join([]string{llm.PurposeChat, llm.PurposeQuiz, llm.PurposeFlashcards, llm.PurposePlanGoals, llm.PurposeResources}, ", "))
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
