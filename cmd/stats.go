package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/trilogic/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		problemID, _ := cmd.Flags().GetString("problem")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		events := st.EventRepo()
		out := cmd.OutOrStdout()

		if problemID == "" {
			summaries, err := events.ProblemSummaries(ctx)
			if err != nil {
				return fmt.Errorf("load summaries: %w", err)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No attempts recorded yet.")
				return nil
			}
			printSummaries(out, summaries)
			fmt.Fprintln(out)
		}

		steps, err := events.StepAccuracy(ctx, problemID)
		if err != nil {
			return fmt.Errorf("load step accuracy: %w", err)
		}
		printSteps(out, steps)
		return nil
	},
}

func init() {
	statsCmd.Flags().String("problem", "", "Only show step accuracy for this problem")
}

func printSummaries(out io.Writer, list []store.ProblemSummary) {
	fmt.Fprintf(out, "%-24s  %8s  %9s  %8s  %8s  %s\n",
		"Problem", "Sessions", "Completed", "Checks", "Accuracy", "Last attempt")
	for _, s := range list {
		last := "-"
		if !s.LastAttempt.IsZero() {
			last = s.LastAttempt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(out, "%-24s  %8d  %9d  %8d  %7.0f%%  %s\n",
			s.ProblemID, s.Sessions, s.Completions, s.Attempts, s.Accuracy*100, last)
	}
}

func printSteps(out io.Writer, steps []store.StepStat) {
	if len(steps) == 0 {
		fmt.Fprintln(out, "No step checks recorded.")
		return
	}
	fmt.Fprintf(out, "%-6s  %8s  %8s  %8s\n", "Step", "Checks", "Correct", "Accuracy")
	for _, s := range steps {
		fmt.Fprintf(out, "%-6d  %8d  %8d  %7.0f%%\n", s.Step, s.Attempts, s.Correct, s.Accuracy*100)
	}
}
