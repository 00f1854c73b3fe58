package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/api"
	"github.com/abhisek/studybuddy/internal/logging"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage study plans",
}

// withService runs fn against the configured backend.
func withService(cmd *cobra.Command, fn func(svc api.Service) error) error {
	cfg, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	log, err := logging.New(os.Stderr, "warn")
	if err != nil {
		return err
	}
	return fn(newService(cmd.Context(), cfg, st, log))
}

// terminalWidth returns the width of stdout, or 80 when it is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List study plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(svc api.Service) error {
			plans, err := svc.StudyPlans(cmd.Context())
			if err != nil {
				return fmt.Errorf("list plans: %w", err)
			}
			if len(plans) == 0 {
				fmt.Println("No study plans yet.")
				return nil
			}

			topicWidth := max(terminalWidth()-58, 12)
			fmt.Printf("%-36s  %s  %6s  %s\n", "ID", components.PadRight("Topic", topicWidth), "Hours", "Deadline")
			fmt.Println(strings.Repeat("─", 36+2+topicWidth+2+6+2+10))
			for _, p := range plans {
				deadline := "-"
				if !p.Deadline.IsZero() {
					deadline = p.Deadline.Local().Format("2006-01-02")
				}
				fmt.Printf("%-36s  %s  %6d  %s\n",
					p.ID,
					components.PadRight(components.Truncate(p.Topic, topicWidth), topicWidth),
					p.TotalHours,
					deadline,
				)
			}
			return nil
		})
	},
}

var plansCreateCmd = &cobra.Command{
	Use:   "create <topic>",
	Short: "Create a study plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, _ := cmd.Flags().GetFloat64("daily-hours")
		days, _ := cmd.Flags().GetInt("days")
		deadline, _ := cmd.Flags().GetString("deadline")
		budget, _ := cmd.Flags().GetInt("hours-available")

		req := api.PlanRequest{
			Topic:          strings.TrimSpace(args[0]),
			DailyHours:     hours,
			TargetDays:     days,
			HoursAvailable: budget,
		}
		if deadline != "" {
			// A deadline replaces the day count unless --days is given too.
			t, err := time.ParseInLocation("2006-01-02", deadline, time.Local)
			if err != nil {
				return fmt.Errorf("deadline must be YYYY-MM-DD: %w", err)
			}
			ts := api.NewTimestamp(t)
			req.Deadline = &ts
			if !cmd.Flags().Changed("days") {
				req.TargetDays = 0
			}
		}
		if budget > 0 && !cmd.Flags().Changed("daily-hours") {
			req.DailyHours = 0
		}
		switch {
		case req.Topic == "":
			return fmt.Errorf("topic is required")
		case req.DailyHours < 0 || req.DailyHours > 24:
			return fmt.Errorf("daily hours must be between 0 and 24")
		case req.TargetDays < 0 || req.TargetDays > 365:
			return fmt.Errorf("days must be between 1 and 365")
		}

		return withService(cmd, func(svc api.Service) error {
			p, err := svc.CreateStudyPlan(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("create plan: %w", err)
			}
			printPlan(p, terminalWidth())
			return nil
		})
	},
}

var plansDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a study plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(svc api.Service) error {
			if err := svc.DeleteStudyPlan(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete plan %s: %w", args[0], err)
			}
			fmt.Println("Deleted", args[0])
			return nil
		})
	},
}

func printPlan(p *api.StudyPlan, width int) {
	sep := strings.Repeat("─", min(width, 60))

	fmt.Printf("ID:        %s\n", p.ID)
	fmt.Printf("Topic:     %s\n", p.Topic)
	fmt.Printf("Hours:     %d total, %.1f per day\n", p.TotalHours, p.DailyHours)
	if !p.Deadline.IsZero() {
		fmt.Printf("Deadline:  %s\n", p.Deadline.Local().Format("2006-01-02"))
	}

	fmt.Println(sep)
	for _, w := range p.WeeklyGoals {
		fmt.Printf("Week %d: %s\n", w.Week, w.Theme)
		for _, g := range w.Goals {
			fmt.Println(components.Truncate("  • "+g, width))
		}
	}
	if len(p.Resources) > 0 {
		fmt.Println(sep)
		fmt.Println("Resources")
		for _, r := range p.Resources {
			fmt.Println(components.Truncate("  • "+r, width))
		}
	}
	if len(p.AssessmentSchedule) > 0 {
		fmt.Println(sep)
		fmt.Println("Assessments")
		for _, a := range p.AssessmentSchedule {
			fmt.Println(components.Truncate("  • "+a, width))
		}
	}
}

func init() {
	plansCreateCmd.Flags().Float64("daily-hours", 2, "Hours of study per day")
	plansCreateCmd.Flags().Int("days", 30, "Days until the deadline")
	plansCreateCmd.Flags().String("deadline", "", "Deadline date (YYYY-MM-DD), used instead of --days")
	plansCreateCmd.Flags().Int("hours-available", 0, "Total hours to spread over the plan, used instead of --daily-hours")

	plansCmd.AddCommand(plansListCmd)
	plansCmd.AddCommand(plansCreateCmd)
	plansCmd.AddCommand(plansDeleteCmd)
}
